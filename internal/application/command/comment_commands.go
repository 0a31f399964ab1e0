package command

import "stocktalk-service/internal/application/common"

type AddCommentCommand struct {
	CallerId string `json:"-"`
	PostId   string `json:"-"`
	Comment  string `json:"comment"`
}

type AddCommentCommandResult struct {
	CommentId string                `json:"commentId"`
	UserId    string                `json:"user"`
	Comment   *common.CommentResult `json:"-"`
}

type DeleteCommentCommand struct {
	CallerId  string
	PostId    string
	CommentId string
}
