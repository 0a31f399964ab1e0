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

type CommentRepository struct {
	store *Store
}

func NewCommentRepository(store *Store) repositories.CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	if comment.Id == "" {
		comment.Id = uuid.NewString()
	}
	commentModel := CommentModel{
		Id:        comment.Id,
		Text:      comment.Text,
		UserId:    comment.UserId,
		PostId:    comment.PostId,
		CreatedAt: comment.CreatedAt,
	}
	if err := r.store.conn(ctx).Create(&commentModel).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return mapToCommentEntity(&commentModel), nil
}

func (r *CommentRepository) FindById(ctx context.Context, id string) (*entities.Comment, error) {
	var commentModel CommentModel
	if err := r.store.conn(ctx).Where("id = ?", id).First(&commentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return mapToCommentEntity(&commentModel), nil
}

func (r *CommentRepository) FindByIds(ctx context.Context, ids []string) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0, len(ids))
	if len(ids) == 0 {
		return comments, nil
	}

	var commentModels []CommentModel
	if err := r.store.conn(ctx).Where("id IN ?", ids).Find(&commentModels).Error; err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	byID := make(map[string]*CommentModel, len(commentModels))
	for i := range commentModels {
		byID[commentModels[i].Id] = &commentModels[i]
	}
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			comments = append(comments, mapToCommentEntity(m))
		}
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res := r.store.conn(ctx).Where("id = ?", id).Delete(&CommentModel{})
	if res.Error != nil {
		return fmt.Errorf("delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment", entities.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res := r.store.conn(ctx).Where("post_id = ?", postID).Delete(&CommentModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete post comments: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func mapToCommentEntity(commentModel *CommentModel) *entities.Comment {
	return &entities.Comment{
		Id:        commentModel.Id,
		Text:      commentModel.Text,
		UserId:    commentModel.UserId,
		PostId:    commentModel.PostId,
		CreatedAt: commentModel.CreatedAt,
	}
}
