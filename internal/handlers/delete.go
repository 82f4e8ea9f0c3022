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

// UserDeleter defines the interface that the deleting service must implement.
type UserDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// DeleteUserResponse represents a successful deletion response
// swagger:model DeleteUserResponse
type DeleteUserResponse struct {
	// Success message
	// example: user deleted
	Message string `json:"message"`

	// Snapshot of the deleted user
	DeletedUser models.User `json:"deletedUser"`
}

// NewDeleteUserHandler returns an HTTP handler for user deletion.
// @Summary Delete a user
// @Description Removes the user permanently and returns the deleted snapshot.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} handlers.DeleteUserResponse "Deleted user"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/{id} [delete]
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid user id",
			})
			return
		}

		user, err := svc.Delete(r.Context(), id)
		if err != nil {
			switch {
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
		json.NewEncoder(w).Encode(DeleteUserResponse{
			Message:     "user deleted",
			DeletedUser: *user,
		})
	}
}
