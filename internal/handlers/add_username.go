package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
	"userdirectory/internal/services"
)

// AddUsernameResponse represents a successful registration response
// swagger:model AddUsernameResponse
type AddUsernameResponse struct {
	// Success message
	// example: User registered successfully
	Message string `json:"message"`

	// Created user
	User models.User `json:"user"`
}

// NewAddUsernameHandler returns an HTTP handler for the registration
// alias route. It creates a user exactly like POST /users but wraps
// the result in a message envelope.
// @Summary Register a new user
// @Description Creates a new user account and returns it with a confirmation message.
// @Tags users
// @Accept json
// @Produce json
// @Param createUserRequest body handlers.CreateUserRequest true "User registration request"
// @Success 201 {object} handlers.AddUsernameResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Missing fields / username or email already exists"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /add-username [post]
func NewAddUsernameHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		user, err := svc.Create(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingFields):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: services.ErrMissingFields.Error(),
				})
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Username or email already exists",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AddUsernameResponse{
			Message: "User registered successfully",
			User:    *user,
		})
	}
}
