package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"stocktalk-service/internal/domain/entities"
)

const profileKeyPrefix = "profile:"

type RedisOptions struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisService is the profile cache. A nil client means Redis is disabled and
// every call is a no-op miss.
type RedisService struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
}

// profileEntry is the cached form of a user. It never carries the password hash.
type profileEntry struct {
	Id             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewRedisService(opts RedisOptions) *RedisService {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Use REDIS_URL if provided
	if opts.URL != "" {
		opt, err := redis.ParseURL(opts.URL)
		if err == nil {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Redis connection failed with REDIS_URL")
				_ = client.Close()
			} else {
				log.Info().Msg("✅ Connected to Redis using REDIS_URL")
				return NewRedisServiceWithClient(client)
			}
		} else {
			log.Warn().Err(err).Msg("invalid REDIS_URL")
		}
	}

	if opts.Host == "" {
		log.Info().Msg("Redis not configured, profile cache disabled")
		return &RedisService{}
	}

	port := opts.Port
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, profile cache disabled")
		_ = client.Close()
		return &RedisService{}
	}

	log.Info().Str("addr", client.Options().Addr).Msg("✅ Connected to Redis")
	return NewRedisServiceWithClient(client)
}

func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis-profile-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A cache miss is not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return &RedisService{client: client, breaker: breaker}
}

func (r *RedisService) Enabled() bool {
	return r.client != nil
}

func (r *RedisService) SetProfile(ctx context.Context, user *entities.User, ttl time.Duration) error {
	if r.client == nil {
		return nil // Redis disabled
	}
	data, err := encodeProfile(user)
	if err != nil {
		return err
	}
	_, err = r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, profileKeyPrefix+user.Id, data, ttl).Err()
	})
	return err
}

// GetProfile returns (nil, nil) on a miss.
func (r *RedisService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	if r.client == nil {
		return nil, nil // Redis disabled
	}
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Get(ctx, profileKeyPrefix+userID).Result()
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry profileEntry
	if err := json.Unmarshal([]byte(res.(string)), &entry); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &entities.User{
		Id:             entry.Id,
		Username:       entry.Username,
		Email:          entry.Email,
		Bio:            entry.Bio,
		ProfilePicture: entry.ProfilePicture,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}, nil
}

func (r *RedisService) DeleteProfile(ctx context.Context, userID string) error {
	if r.client == nil {
		return nil // Redis disabled
	}
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, profileKeyPrefix+userID).Err()
	})
	return err
}

func (r *RedisService) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

func (r *RedisService) Close() error {
	if r.client == nil {
		return nil // Redis disabled
	}
	return r.client.Close()
}

func encodeProfile(user *entities.User) (string, error) {
	data, err := json.Marshal(profileEntry{
		Id:             user.Id,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
