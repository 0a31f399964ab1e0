package interfaces

import (
	"context"
	"time"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/events"
)

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type TokenVerifier interface {
	ValidateToken(token string) (string, error)
}

// ProfileCache returns (nil, nil) on a miss.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
	SetProfile(ctx context.Context, user *entities.User, ttl time.Duration) error
	DeleteProfile(ctx context.Context, userID string) error
}

type Limiter interface {
	Allow(key string) bool
}

// EventPublisher fans an event out to every connected real-time client.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
