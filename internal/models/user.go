package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database.
// PasswordHash carries the bcrypt digest and must never be serialized
// into a response body; handlers return the User view instead.
type UserDB struct {
	UserID       uuid.UUID `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// User is the public projection of a user record.
type User struct {
	ID       uuid.UUID `json:"id" db:"user_id"`
	Username string    `json:"username" db:"username"`
	Email    string    `json:"email" db:"email"`
}

// Public returns the response-safe projection of the record.
func (u *UserDB) Public() User {
	return User{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserPatch holds the optional fields of a partial update.
// Nil fields are left untouched by the store.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil
}
