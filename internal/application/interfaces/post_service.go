package interfaces

import (
	"context"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/query"
)

type PostService interface {
	CreatePost(ctx context.Context, createCommand *command.CreatePostCommand) (*command.CreatePostCommandResult, error)
	ListPosts(ctx context.Context, listQuery *query.ListPostsQuery) (*query.PostListQueryResult, error)
	GetPost(ctx context.Context, postID string) (*query.PostDetailQueryResult, error)
	DeletePost(ctx context.Context, deleteCommand *command.DeletePostCommand) error
	LikePost(ctx context.Context, likeCommand *command.LikePostCommand) error
	UnlikePost(ctx context.Context, likeCommand *command.LikePostCommand) error
}

type CommentService interface {
	AddComment(ctx context.Context, addCommand *command.AddCommentCommand) (*command.AddCommentCommandResult, error)
	DeleteComment(ctx context.Context, deleteCommand *command.DeleteCommentCommand) error
}
