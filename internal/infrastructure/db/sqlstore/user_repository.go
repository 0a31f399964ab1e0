package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/repositories"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()
	if userEntity.Id == "" {
		userEntity.Id = uuid.NewString()
	}

	userModel := toUserModel(userEntity)
	if err := r.store.conn(ctx).Create(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email %s", entities.ErrConflict, userEntity.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Read back the created user to ensure data integrity
	return r.FindById(ctx, userEntity.Id)
}

func (r *UserRepository) FindById(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, cond string, arg string) (*entities.User, error) {
	var userModel UserModel
	if err := r.store.conn(ctx).Where(cond, arg).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mapToUserEntity(&userModel), nil
}

func (r *UserRepository) FindByIds(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	users := make(map[string]*entities.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var userModels []UserModel
	if err := r.store.conn(ctx).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for i := range userModels {
		users[userModels[i].Id] = mapToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	res := r.store.conn(ctx).Model(&UserModel{}).Where("id = ?", userEntity.Id).Updates(map[string]interface{}{
		"username":        userEntity.Username,
		"password":        userEntity.Password,
		"bio":             userEntity.Bio,
		"profile_picture": userEntity.ProfilePicture,
		"updated_at":      userEntity.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: user", entities.ErrNotFound)
	}

	// Read back the updated user to ensure data integrity
	return r.FindById(ctx, userEntity.Id)
}

func toUserModel(user *entities.User) UserModel {
	return UserModel{
		Id:             user.Id,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		Username:       user.Username,
		Email:          user.Email,
		Password:       user.Password,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
	}
}

func mapToUserEntity(userModel *UserModel) *entities.User {
	return &entities.User{
		Id:             userModel.Id,
		CreatedAt:      userModel.CreatedAt,
		UpdatedAt:      userModel.UpdatedAt,
		Username:       userModel.Username,
		Email:          userModel.Email,
		Password:       userModel.Password,
		Bio:            userModel.Bio,
		ProfilePicture: userModel.ProfilePicture,
	}
}
