package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
	"userdirectory/internal/services"
)

// UserPatcher defines the interface that the patching service must implement.
type UserPatcher interface {
	Patch(ctx context.Context, id uuid.UUID, username, email, password *string) (*models.User, error)
}

// PatchUserRequest represents the JSON body for a partial update.
// Absent fields are left unchanged.
// swagger:model PatchUserRequest
type PatchUserRequest struct {
	// Username
	// example: john_doe
	Username *string `json:"username,omitempty"`

	// Email
	// example: john@example.com
	Email *string `json:"email,omitempty"`

	// Password
	// example: secret123
	Password *string `json:"password,omitempty"`
}

// nonEmpty collapses absent and empty-string fields into nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// NewPatchUserHandler returns an HTTP handler for partial user updates.
// @Summary Partially update a user
// @Description Updates only the supplied fields. An empty field set is rejected.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param patchUserRequest body handlers.PatchUserRequest true "Fields to update"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} handlers.ErrorResponse "Empty field set / invalid id / duplicate"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/{id} [patch]
func NewPatchUserHandler(svc UserPatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid user id",
			})
			return
		}

		var req PatchUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		user, err := svc.Patch(r.Context(), id,
			nonEmpty(req.Username), nonEmpty(req.Email), nonEmpty(req.Password))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyUpdate):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: services.ErrEmptyUpdate.Error(),
				})
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Username or email already exists",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "user not found",
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

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}
