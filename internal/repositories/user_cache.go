package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"userdirectory/internal/logger"
	"userdirectory/internal/models"
)

const userListKey = "users:list"

// UserListCacheRepository caches the full user listing in Redis.
// Every mutation drops the key; the next listing repopulates it.
type UserListCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewUserListCacheRepository creates a new cache repository with the given TTL.
func NewUserListCacheRepository(client *redis.Client, expiration time.Duration) *UserListCacheRepository {
	return &UserListCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get returns the cached user listing, or nil on a cache miss.
func (r *UserListCacheRepository) Get(ctx context.Context) ([]models.User, error) {
	val, err := r.client.Get(ctx, userListKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Infow("user cache get",
			"key", userListKey,
			"error", err,
		)
		return nil, err
	}

	var users []models.User
	if err := json.Unmarshal([]byte(val), &users); err != nil {
		logger.Log.Infow("user cache get",
			"key", userListKey,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("user cache get",
		"key", userListKey,
		"rows", len(users),
	)

	return users, nil
}

// Set stores the user listing with the configured TTL.
func (r *UserListCacheRepository) Set(ctx context.Context, users []models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, userListKey, data, r.exp).Err()

	logger.Log.Infow("user cache set",
		"key", userListKey,
		"rows", len(users),
		"error", err,
	)

	return err
}

// Drop invalidates the cached listing.
func (r *UserListCacheRepository) Drop(ctx context.Context) error {
	err := r.client.Del(ctx, userListKey).Err()

	logger.Log.Infow("user cache drop",
		"key", userListKey,
		"error", err,
	)

	return err
}
