package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
	"userdirectory/internal/repositories"
)

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	Replace(ctx context.Context, id uuid.UUID, username, email, passwordHash string) (*models.User, error)
	Patch(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UserListCache caches the user listing.
type UserListCache interface {
	Get(ctx context.Context) ([]models.User, error)
	Set(ctx context.Context, users []models.User) error
	Drop(ctx context.Context) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// UserService handles user CRUD, cache maintenance, and event publishing.
type UserService struct {
	reader      UserReader
	writer      UserWriter
	cache       UserListCache
	kafkaWriter KafkaWriter
}

// NewUserService creates a new UserService. Cache and Kafka writer may
// be nil; both are best-effort side channels.
func NewUserService(reader UserReader, writer UserWriter, cache UserListCache, kafkaWriter KafkaWriter) *UserService {
	return &UserService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a user lifecycle event to Kafka.
// Publish failures are logged and never surfaced to the caller.
func (s *UserService) publishEvent(ctx context.Context, eventType string, user models.User) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", eventType)
		return
	}

	event := models.UserEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		User:      user,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal user event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(user.ID.String()),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish user event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("user event published", "event_id", event.EventID, "type", eventType)
	}
}

// dropCache invalidates the cached listing after a mutation.
func (s *UserService) dropCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Drop(ctx); err != nil {
		logger.Log.Errorw("failed to drop user list cache", "error", err)
	}
}

// List returns all users, serving from the cache when possible.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	if s.cache != nil {
		users, err := s.cache.Get(ctx)
		if err == nil && users != nil {
			return users, nil
		}
	}

	users, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, users); err != nil {
			logger.Log.Errorw("failed to cache user list", "error", err)
		}
	}

	return users, nil
}

// Create registers a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := s.writer.Create(ctx, username, email, string(hashedPassword))
	if err != nil {
		// Two concurrent creates can both pass the pre-check; the
		// unique constraint settles it.
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	s.dropCache(ctx)
	s.publishEvent(ctx, models.EventUserCreated, *user)

	return user, nil
}

// Replace overwrites every mutable field of the user.
func (s *UserService) Replace(ctx context.Context, id uuid.UUID, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := s.writer.Replace(ctx, id, username, email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to replace user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.dropCache(ctx)
	s.publishEvent(ctx, models.EventUserUpdated, *user)

	return user, nil
}

// Patch updates only the supplied fields of the user.
// An empty field set is rejected before touching the store.
func (s *UserService) Patch(ctx context.Context, id uuid.UUID, username, email, password *string) (*models.User, error) {
	patch := models.UserPatch{
		Username: username,
		Email:    email,
	}

	if password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		hash := string(hashedPassword)
		patch.PasswordHash = &hash
	}

	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.writer.Patch(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to patch user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.dropCache(ctx)
	s.publishEvent(ctx, models.EventUserUpdated, *user)

	return user, nil
}

// Delete removes the user permanently and returns the deleted snapshot.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.dropCache(ctx)
	s.publishEvent(ctx, models.EventUserDeleted, *user)

	return user, nil
}
