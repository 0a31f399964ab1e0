package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/repositories"
)

type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) repositories.PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	if post.Id == "" {
		post.Id = uuid.NewString()
	}

	err := r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		postModel := PostModel{
			Id:          post.Id,
			StockSymbol: post.StockSymbol,
			Title:       post.Title,
			Description: post.Description,
			UserId:      post.UserId,
			CreatedAt:   post.CreatedAt,
		}
		if err := db.Create(&postModel).Error; err != nil {
			return err
		}
		if len(post.Tags) == 0 {
			return nil
		}
		tags := make([]PostTagModel, 0, len(post.Tags))
		for i, tag := range post.Tags {
			tags = append(tags, PostTagModel{PostId: post.Id, Position: i, Tag: tag})
		}
		return db.Create(&tags).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return r.FindById(ctx, post.Id)
}

func (r *PostRepository) FindById(ctx context.Context, id string) (*entities.Post, error) {
	var postModel PostModel
	if err := r.store.conn(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	posts, err := r.hydrate(ctx, []PostModel{postModel})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*entities.Post, error) {
	db := r.store.conn(ctx)
	q := db.Model(&PostModel{})
	if filter.StockSymbol != "" {
		q = q.Where("stock_symbol = ?", filter.StockSymbol)
	}
	if len(filter.Tags) > 0 {
		q = q.Where("id IN (?)", db.Model(&PostTagModel{}).Select("post_id").Where("tag IN ?", filter.Tags))
	}
	switch filter.SortBy {
	case repositories.SortDate:
		q = q.Order("created_at DESC").Order("id DESC")
	case repositories.SortLikes:
		q = q.Order("likes_count DESC").Order("created_at DESC")
	default:
		q = q.Order("created_at ASC").Order("id ASC")
	}

	var postModels []PostModel
	if err := q.Find(&postModels).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return r.hydrate(ctx, postModels)
}

// Delete removes the post row and everything hanging off it except the
// comment documents themselves.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		res := db.Where("id = ?", id).Delete(&PostModel{})
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: post", entities.ErrNotFound)
		}
		for _, model := range []interface{}{&PostTagModel{}, &PostLikeModel{}, &PostCommentModel{}} {
			if err := db.Where("post_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete post relations: %w", err)
			}
		}
		return nil
	})
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		if err := r.lockPost(db, postID); err != nil {
			return err
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&PostLikeModel{PostId: postID, UserId: userID, CreatedAt: time.Now().UTC()})
		if res.Error != nil {
			return fmt.Errorf("add like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return entities.ErrAlreadyLiked
		}
		return r.recountLikes(db, postID)
	})
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		if err := r.lockPost(db, postID); err != nil {
			return err
		}

		res := db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&PostLikeModel{})
		if res.Error != nil {
			return fmt.Errorf("remove like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return entities.ErrNotLiked
		}
		return r.recountLikes(db, postID)
	})
}

func (r *PostRepository) AppendComment(ctx context.Context, postID, commentID string) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		if err := r.lockPost(db, postID); err != nil {
			return err
		}

		var last int64
		if err := db.Model(&PostCommentModel{}).Where("post_id = ?", postID).
			Select("COALESCE(MAX(seq), 0)").Scan(&last).Error; err != nil {
			return fmt.Errorf("append comment: %w", err)
		}
		if err := db.Create(&PostCommentModel{CommentId: commentID, PostId: postID, Seq: last + 1}).Error; err != nil {
			return fmt.Errorf("append comment: %w", err)
		}
		return nil
	})
}

func (r *PostRepository) PullComment(ctx context.Context, postID, commentID string) error {
	err := r.store.conn(ctx).Where("post_id = ? AND comment_id = ?", postID, commentID).Delete(&PostCommentModel{}).Error
	if err != nil {
		return fmt.Errorf("pull comment: %w", err)
	}
	return nil
}

// lockPost checks the post exists and, on Postgres, row-locks it for the
// rest of the transaction.
func (r *PostRepository) lockPost(db *gorm.DB, postID string) error {
	q := db.Model(&PostModel{}).Where("id = ?", postID)
	if db.Dialector.Name() == DriverPostgres {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []string
	if err := q.Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("lock post: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: post", entities.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) recountLikes(db *gorm.DB, postID string) error {
	count := db.Model(&PostLikeModel{}).Select("COUNT(*)").Where("post_id = ?", postID)
	if err := db.Model(&PostModel{}).Where("id = ?", postID).Update("likes_count", count).Error; err != nil {
		return fmt.Errorf("recount likes: %w", err)
	}
	return nil
}

// hydrate loads tags, likes and comment references for the given rows and
// keeps the row order.
func (r *PostRepository) hydrate(ctx context.Context, postModels []PostModel) ([]*entities.Post, error) {
	posts := make([]*entities.Post, 0, len(postModels))
	if len(postModels) == 0 {
		return posts, nil
	}

	ids := make([]string, 0, len(postModels))
	byID := make(map[string]*entities.Post, len(postModels))
	for _, m := range postModels {
		post := &entities.Post{
			Id:          m.Id,
			StockSymbol: m.StockSymbol,
			Title:       m.Title,
			Description: m.Description,
			Tags:        []string{},
			UserId:      m.UserId,
			Likes:       []string{},
			LikesCount:  m.LikesCount,
			Comments:    []string{},
			CreatedAt:   m.CreatedAt,
		}
		posts = append(posts, post)
		byID[m.Id] = post
		ids = append(ids, m.Id)
	}

	db := r.store.conn(ctx)

	var tags []PostTagModel
	if err := db.Where("post_id IN ?", ids).Order("post_id").Order("position").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for _, t := range tags {
		byID[t.PostId].Tags = append(byID[t.PostId].Tags, t.Tag)
	}

	var likes []PostLikeModel
	if err := db.Where("post_id IN ?", ids).Order("created_at").Order("user_id").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	for _, l := range likes {
		byID[l.PostId].Likes = append(byID[l.PostId].Likes, l.UserId)
	}

	var refs []PostCommentModel
	if err := db.Where("post_id IN ?", ids).Order("post_id").Order("seq").Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("load comment refs: %w", err)
	}
	for _, c := range refs {
		byID[c.PostId].Comments = append(byID[c.PostId].Comments, c.CommentId)
	}

	return posts, nil
}
