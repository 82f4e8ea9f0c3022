package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"userdirectory/internal/models"
	"userdirectory/internal/services"
)

func TestAddUsernameHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserCreator(ctrl)

	created := models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
	}

	t.Run("success wraps user in message envelope", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), "alice", "a@x.com", "secret").
			Return(&created, nil)

		body, _ := json.Marshal(CreateUserRequest{Username: "alice", Email: "a@x.com", Password: "secret"})
		req := httptest.NewRequest(http.MethodPost, "/add-username", bytes.NewReader(body))
		w := httptest.NewRecorder()

		NewAddUsernameHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp AddUsernameResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "User registered successfully", resp.Message)
		assert.Equal(t, created, resp.User)
	})

	t.Run("duplicate", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), "alice", "a@x.com", "secret").
			Return(nil, services.ErrUserAlreadyExists)

		body, _ := json.Marshal(CreateUserRequest{Username: "alice", Email: "a@x.com", Password: "secret"})
		req := httptest.NewRequest(http.MethodPost, "/add-username", bytes.NewReader(body))
		w := httptest.NewRecorder()

		NewAddUsernameHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "Username or email already exists", resp.Error)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/add-username", bytes.NewReader([]byte("{invalid")))
		w := httptest.NewRecorder()

		NewAddUsernameHandler(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
