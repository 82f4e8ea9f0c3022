package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"userdirectory/internal/models"
)

func newSqlmockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserReadRepository_List_Error(t *testing.T) {
	db, mock := newSqlmockDB(t)
	repo := NewUserReadRepository(db)

	mock.ExpectQuery("SELECT user_id, username, email").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Create_Error(t *testing.T) {
	db, mock := newSqlmockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "hash1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), "alice", "alice@example.com", "hash1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Patch_SetClause(t *testing.T) {
	db, mock := newSqlmockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()
	email := "new@example.com"

	// Only the supplied column appears in the SET clause
	mock.ExpectQuery(`SET email = \$1, updated_at = NOW\(\)\s+WHERE user_id = \$2`).
		WithArgs(email, id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email"}).
			AddRow(id, "alice", email))

	user, err := repo.Patch(context.Background(), id, models.UserPatch{Email: &email})
	assert.NoError(t, err)
	if assert.NotNil(t, user) {
		assert.Equal(t, email, user.Email)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Patch_AllFields(t *testing.T) {
	db, mock := newSqlmockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()
	username := "alice2"
	email := "new@example.com"
	hash := "hash2"

	mock.ExpectQuery(`SET username = \$1, email = \$2, password_hash = \$3, updated_at = NOW\(\)\s+WHERE user_id = \$4`).
		WithArgs(username, email, hash, id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email"}).
			AddRow(id, username, email))

	user, err := repo.Patch(context.Background(), id, models.UserPatch{
		Username:     &username,
		Email:        &email,
		PasswordHash: &hash,
	})
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Patch_Empty(t *testing.T) {
	db, _ := newSqlmockDB(t)
	repo := NewUserWriteRepository(db)

	_, err := repo.Patch(context.Background(), uuid.New(), models.UserPatch{})
	assert.Error(t, err)
}

func TestUserWriteRepository_Delete_Error(t *testing.T) {
	db, mock := newSqlmockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()
	mock.ExpectQuery("DELETE FROM users").
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Delete(context.Background(), id)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
