package mapper

import (
	"stocktalk-service/internal/application/common"
	"stocktalk-service/internal/domain/entities"
)

func NewPostResultFromEntity(post *entities.Post, users map[string]*entities.User) *common.PostResult {
	return &common.PostResult{
		Id:          post.Id,
		StockSymbol: post.StockSymbol,
		Title:       post.Title,
		Description: post.Description,
		Tags:        nonNil(post.Tags),
		User:        NewUserRef(post.UserId, users),
		Likes:       nonNil(post.Likes),
		LikesCount:  post.LikesCount,
		Comments:    nonNil(post.Comments),
		CreatedAt:   post.CreatedAt,
	}
}

func NewPostDetailResultFromEntity(post *entities.Post, comments []*entities.Comment, users map[string]*entities.User) *common.PostDetailResult {
	resolved := make([]*common.CommentResult, 0, len(comments))
	for _, c := range comments {
		resolved = append(resolved, NewCommentResultFromEntity(c, users))
	}
	return &common.PostDetailResult{
		Id:          post.Id,
		StockSymbol: post.StockSymbol,
		Title:       post.Title,
		Description: post.Description,
		Tags:        nonNil(post.Tags),
		User:        NewUserRef(post.UserId, users),
		Likes:       nonNil(post.Likes),
		LikesCount:  post.LikesCount,
		Comments:    resolved,
		CreatedAt:   post.CreatedAt,
	}
}

func NewCommentResultFromEntity(comment *entities.Comment, users map[string]*entities.User) *common.CommentResult {
	return &common.CommentResult{
		Id:        comment.Id,
		Comment:   comment.Text,
		User:      NewUserRef(comment.UserId, users),
		Post:      comment.PostId,
		CreatedAt: comment.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
