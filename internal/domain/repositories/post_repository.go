package repositories

import (
	"context"

	"stocktalk-service/internal/domain/entities"
)

type PostSort string

const (
	SortNone  PostSort = ""
	SortDate  PostSort = "date"
	SortLikes PostSort = "likes"
)

type PostFilter struct {
	StockSymbol string
	Tags        []string
	SortBy      PostSort
}

// PostRepository keeps likesCount equal to the size of the likes set:
// AddLike and RemoveLike are single atomic operations in every implementation.
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) (*entities.Post, error)
	FindById(ctx context.Context, id string) (*entities.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*entities.Post, error)
	Delete(ctx context.Context, id string) error

	// AddLike reports ErrAlreadyLiked when the user is already a liker.
	AddLike(ctx context.Context, postID, userID string) error
	// RemoveLike reports ErrNotLiked when the user is not a liker.
	RemoveLike(ctx context.Context, postID, userID string) error

	AppendComment(ctx context.Context, postID, commentID string) error
	PullComment(ctx context.Context, postID, commentID string) error
}
