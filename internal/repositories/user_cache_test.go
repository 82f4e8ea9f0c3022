package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"userdirectory/internal/models"
)

func TestUserListCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewUserListCacheRepository(rdb, 2*time.Second)

	users := []models.User{
		{ID: uuid.New(), Username: "alice", Email: "alice@example.com"},
		{ID: uuid.New(), Username: "bob", Email: "bob@example.com"},
	}

	t.Run("miss returns nil without error", func(t *testing.T) {
		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set and get", func(t *testing.T) {
		err := repo.Set(ctx, users)
		assert.NoError(t, err)

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("drop invalidates", func(t *testing.T) {
		err := repo.Set(ctx, users)
		assert.NoError(t, err)

		err = repo.Drop(ctx)
		assert.NoError(t, err)

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("cached value expires", func(t *testing.T) {
		err := repo.Set(ctx, users)
		assert.NoError(t, err)

		time.Sleep(3 * time.Second)

		got, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
