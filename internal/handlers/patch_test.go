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

func strPtr(s string) *string { return &s }

func TestPatchUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserPatcher(ctrl)

	id := uuid.New()
	updated := models.User{ID: id, Username: "alice", Email: "new@x.com"}

	tests := []struct {
		name         string
		id           string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedBody interface{}
	}{
		{
			name: "email only",
			id:   id.String(),
			inputBody: PatchUserRequest{
				Email: strPtr("new@x.com"),
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Patch(gomock.Any(), id, gomock.Nil(), strPtr("new@x.com"), gomock.Nil()).
					Return(&updated, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &updated,
		},
		{
			name:      "empty field set",
			id:        id.String(),
			inputBody: PatchUserRequest{},
			mockSetup: func() {
				mockSvc.EXPECT().
					Patch(gomock.Any(), id, gomock.Nil(), gomock.Nil(), gomock.Nil()).
					Return(nil, services.ErrEmptyUpdate)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Error: services.ErrEmptyUpdate.Error()},
		},
		{
			name: "empty strings are treated as absent",
			id:   id.String(),
			inputBody: PatchUserRequest{
				Username: strPtr(""),
				Email:    strPtr(""),
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Patch(gomock.Any(), id, gomock.Nil(), gomock.Nil(), gomock.Nil()).
					Return(nil, services.ErrEmptyUpdate)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Error: services.ErrEmptyUpdate.Error()},
		},
		{
			name:         "invalid id",
			id:           "42",
			inputBody:    PatchUserRequest{Email: strPtr("new@x.com")},
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Error: "invalid user id"},
		},
		{
			name: "not found",
			id:   id.String(),
			inputBody: PatchUserRequest{
				Username: strPtr("ghost"),
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Patch(gomock.Any(), id, strPtr("ghost"), gomock.Nil(), gomock.Nil()).
					Return(nil, services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: &ErrorResponse{Error: "user not found"},
		},
		{
			name: "duplicate email",
			id:   id.String(),
			inputBody: PatchUserRequest{
				Email: strPtr("taken@x.com"),
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Patch(gomock.Any(), id, gomock.Nil(), strPtr("taken@x.com"), gomock.Nil()).
					Return(nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &ErrorResponse{Error: "Username or email already exists"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			bodyBytes, _ := json.Marshal(tt.inputBody)

			req := httptest.NewRequest(http.MethodPatch, "/users/"+tt.id, bytes.NewReader(bodyBytes))
			req = withURLParam(req, "id", tt.id)
			w := httptest.NewRecorder()

			NewPatchUserHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			switch tt.expectedCode {
			case http.StatusOK:
				respBody = &models.User{}
			default:
				respBody = &ErrorResponse{}
			}
			err := json.Unmarshal(w.Body.Bytes(), respBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}
