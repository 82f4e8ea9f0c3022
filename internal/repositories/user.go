package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
)

// ErrUniqueViolation is returned when an insert or update hits the
// unique constraints on username or email. The constraint is the
// authoritative duplicate check; service-level pre-checks only improve
// the error message in the common case.
var ErrUniqueViolation = errors.New("username or email already taken")

const uniqueViolationCode = "23505"

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrUniqueViolation
	}
	return err
}

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// List returns all users without their password hashes.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT user_id, username, email
		FROM users
		ORDER BY created_at
	`

	users := make([]models.User, 0)
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"rows", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetByUsernameOrEmail returns the first user matching the given
// username and/or email, or nil when no row matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a new user and returns its public projection.
func (r *UserWriteRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING user_id, username, email
	`
	args := []any{username, email, passwordHash}

	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Replace overwrites all mutable columns of the matching row.
// Returns nil when no row matches the id.
func (r *UserWriteRepository) Replace(ctx context.Context, id uuid.UUID, username, email, passwordHash string) (*models.User, error) {
	const query = `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, updated_at = NOW()
		WHERE user_id = $4
		RETURNING user_id, username, email
	`
	args := []any{username, email, passwordHash, id}

	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email, id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Patch updates only the columns carried by the patch. The caller must
// reject empty patches; an empty SET clause is a programming error here.
func (r *UserWriteRepository) Patch(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	if patch.IsEmpty() {
		return nil, errors.New("empty patch")
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if patch.Username != nil {
		args = append(args, *patch.Username)
		set = append(set, fmt.Sprintf("username = $%d", len(args)))
	}
	if patch.Email != nil {
		args = append(args, *patch.Email)
		set = append(set, fmt.Sprintf("email = $%d", len(args)))
	}
	if patch.PasswordHash != nil {
		args = append(args, *patch.PasswordHash)
		set = append(set, fmt.Sprintf("password_hash = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE user_id = $%d
		RETURNING user_id, username, email
	`, strings.Join(set, ", "), len(args))

	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Delete removes the matching row and returns its last snapshot.
// Returns nil when no row matches the id.
func (r *UserWriteRepository) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const query = `
		DELETE FROM users
		WHERE user_id = $1
		RETURNING user_id, username, email
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
