package repositories

import (
	"context"

	"stocktalk-service/internal/domain/entities"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error)
	FindById(ctx context.Context, id string) (*entities.Comment, error)
	// FindByIds returns the comments in the order of ids, skipping missing ones.
	FindByIds(ctx context.Context, ids []string) ([]*entities.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

// Transactor runs fn as one unit of work. Repositories called with the ctx
// handed to fn take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
