package services

import (
	"context"
	"errors"
	"fmt"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/application/mapper"
	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/events"
	"stocktalk-service/internal/domain/repositories"
)

type CommentService struct {
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	users     repositories.UserRepository
	tx        repositories.Transactor
	publisher interfaces.EventPublisher
}

func NewCommentService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	publisher interfaces.EventPublisher,
) interfaces.CommentService {
	return &CommentService{
		posts:     posts,
		comments:  comments,
		users:     users,
		tx:        tx,
		publisher: publisher,
	}
}

func (s *CommentService) AddComment(ctx context.Context, addCommand *command.AddCommentCommand) (*command.AddCommentCommandResult, error) {
	post, err := s.posts.FindById(ctx, addCommand.PostId)
	if err != nil {
		return nil, err
	}

	if addCommand.CallerId == "" {
		return nil, entities.ErrUnauthorized
	}
	author, err := s.users.FindById(ctx, addCommand.CallerId)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown caller", entities.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	comment := entities.NewComment(author.Id, post.Id, addCommand.Comment)
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	var created *entities.Comment
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.comments.Create(ctx, comment)
		if err != nil {
			return err
		}
		return s.posts.AppendComment(ctx, post.Id, created.Id)
	})
	if err != nil {
		return nil, err
	}

	view := mapper.NewCommentResultFromEntity(created, map[string]*entities.User{author.Id: author})
	publish(ctx, s.publisher, events.CommentAdded, view)

	return &command.AddCommentCommandResult{
		CommentId: created.Id,
		UserId:    author.Id,
		Comment:   view,
	}, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, deleteCommand *command.DeleteCommentCommand) error {
	comment, err := s.comments.FindById(ctx, deleteCommand.CommentId)
	if err != nil {
		return err
	}
	if comment.PostId != deleteCommand.PostId {
		return fmt.Errorf("%w: comment %s does not belong to post %s", entities.ErrNotFound, comment.Id, deleteCommand.PostId)
	}
	if !comment.IsOwnedBy(deleteCommand.CallerId) {
		return fmt.Errorf("%w: comment %s is not owned by caller", entities.ErrUnauthorized, comment.Id)
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.comments.Delete(ctx, comment.Id); err != nil {
			return err
		}
		return s.posts.PullComment(ctx, comment.PostId, comment.Id)
	})
}
