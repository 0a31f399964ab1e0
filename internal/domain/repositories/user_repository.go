package repositories

import (
	"context"

	"stocktalk-service/internal/domain/entities"
)

// UserRepository reports entities.ErrNotFound for missing users and
// entities.ErrConflict when an email is already registered.
type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByIds(ctx context.Context, ids []string) (map[string]*entities.User, error)
	Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
}
