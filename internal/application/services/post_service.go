package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/common"
	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/application/mapper"
	"stocktalk-service/internal/application/query"
	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/events"
	"stocktalk-service/internal/domain/repositories"
)

type PostService struct {
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	users     repositories.UserRepository
	tx        repositories.Transactor
	publisher interfaces.EventPublisher
}

func NewPostService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	publisher interfaces.EventPublisher,
) interfaces.PostService {
	return &PostService{
		posts:     posts,
		comments:  comments,
		users:     users,
		tx:        tx,
		publisher: publisher,
	}
}

func (s *PostService) CreatePost(ctx context.Context, createCommand *command.CreatePostCommand) (*command.CreatePostCommandResult, error) {
	if createCommand.CallerId == "" {
		return nil, entities.ErrUnauthorized
	}

	post := entities.NewPost(
		createCommand.CallerId,
		createCommand.StockSymbol,
		createCommand.Title,
		createCommand.Description,
		createCommand.Tags,
	)
	if err := post.Validate(); err != nil {
		return nil, err
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	return &command.CreatePostCommandResult{
		PostId: created.Id,
		UserId: created.UserId,
	}, nil
}

func (s *PostService) ListPosts(ctx context.Context, listQuery *query.ListPostsQuery) (*query.PostListQueryResult, error) {
	sortBy := repositories.PostSort(listQuery.SortBy)
	if sortBy != repositories.SortDate && sortBy != repositories.SortLikes {
		sortBy = repositories.SortNone
	}

	posts, err := s.posts.List(ctx, repositories.PostFilter{
		StockSymbol: listQuery.StockSymbol,
		Tags:        listQuery.Tags,
		SortBy:      sortBy,
	})
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		ownerIDs = append(ownerIDs, p.UserId)
	}
	owners, err := s.users.FindByIds(ctx, uniqueIDs(ownerIDs))
	if err != nil {
		return nil, err
	}

	result := make([]*common.PostResult, 0, len(posts))
	for _, p := range posts {
		result = append(result, mapper.NewPostResultFromEntity(p, owners))
	}
	return &query.PostListQueryResult{Result: result}, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*query.PostDetailQueryResult, error) {
	post, err := s.posts.FindById(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByIds(ctx, post.Comments)
	if err != nil {
		return nil, err
	}

	userIDs := []string{post.UserId}
	for _, c := range comments {
		userIDs = append(userIDs, c.UserId)
	}
	users, err := s.users.FindByIds(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}

	return &query.PostDetailQueryResult{
		Result: mapper.NewPostDetailResultFromEntity(post, comments, users),
	}, nil
}

// DeletePost removes the post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, deleteCommand *command.DeletePostCommand) error {
	post, err := s.posts.FindById(ctx, deleteCommand.PostId)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(deleteCommand.CallerId) {
		return fmt.Errorf("%w: post %s is not owned by caller", entities.ErrUnauthorized, post.Id)
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		removed, err := s.comments.DeleteByPost(ctx, post.Id)
		if err != nil {
			return err
		}
		if err := s.posts.Delete(ctx, post.Id); err != nil {
			return err
		}
		log.Debug().Str("post_id", post.Id).Int64("comments", removed).Msg("post deleted")
		return nil
	})
}

func (s *PostService) LikePost(ctx context.Context, likeCommand *command.LikePostCommand) error {
	if likeCommand.CallerId == "" {
		return entities.ErrUnauthorized
	}
	if err := s.posts.AddLike(ctx, likeCommand.PostId, likeCommand.CallerId); err != nil {
		return err
	}
	publish(ctx, s.publisher, events.PostLiked, likeCommand.PostId)
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, likeCommand *command.LikePostCommand) error {
	if likeCommand.CallerId == "" {
		return entities.ErrUnauthorized
	}
	return s.posts.RemoveLike(ctx, likeCommand.PostId, likeCommand.CallerId)
}

// publish emits a real-time event. Failures are logged only; the mutation
// that triggered the event has already been persisted.
func publish(ctx context.Context, publisher interfaces.EventPublisher, name string, data interface{}) {
	if publisher == nil {
		return
	}
	event, err := events.New(name, data)
	if err == nil {
		err = publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("event", name).Msg("failed to publish event")
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
