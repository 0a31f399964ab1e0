package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktalk-service/internal/domain/entities"
)

func cachedUser() *entities.User {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entities.User{
		Id:        "u1",
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$10$hash",
		Bio:       "long AAPL",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestRedisServiceSetProfileOmitsPassword(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewRedisServiceWithClient(db)
	user := cachedUser()

	data, err := encodeProfile(user)
	require.NoError(t, err)
	assert.NotContains(t, data, "hash")

	mock.ExpectSet("profile:u1", data, time.Hour).SetVal("OK")
	require.NoError(t, svc.SetProfile(context.Background(), user, time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisServiceGetProfile(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewRedisServiceWithClient(db)
	data, err := encodeProfile(cachedUser())
	require.NoError(t, err)

	mock.ExpectGet("profile:u1").SetVal(data)
	got, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "long AAPL", got.Bio)
	assert.Empty(t, got.Password)

	mock.ExpectGet("profile:u2").RedisNil()
	got, err = svc.GetProfile(context.Background(), "u2")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisServiceDeleteProfile(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewRedisServiceWithClient(db)

	mock.ExpectDel("profile:u1").SetVal(1)
	require.NoError(t, svc.DeleteProfile(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisServiceBreakerOpensAfterFailures(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewRedisServiceWithClient(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mock.ExpectGet("profile:u1").SetErr(errors.New("connection refused"))
		_, err := svc.GetProfile(ctx, "u1")
		require.Error(t, err)
	}

	// Open breaker short-circuits without touching Redis.
	_, err := svc.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisServiceDisabled(t *testing.T) {
	svc := &RedisService{}
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.SetProfile(ctx, cachedUser(), time.Hour))
	got, err := svc.GetProfile(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, svc.DeleteProfile(ctx, "u1"))
	assert.NoError(t, svc.Close())
}
