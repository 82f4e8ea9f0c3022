package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
)

// UserLister defines the interface that the listing service must implement.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// NewListUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns all users. Password hashes are never included.
// @Tags users
// @Produce json
// @Success 200 {array} models.User "All users"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(users)
	}
}
