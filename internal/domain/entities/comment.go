package entities

import (
	"fmt"
	"strings"
	"time"
)

type Comment struct {
	Id        string
	Text      string
	UserId    string
	PostId    string
	CreatedAt time.Time
}

func NewComment(userID, postID, text string) *Comment {
	return &Comment{
		Text:      text,
		UserId:    userID,
		PostId:    postID,
		CreatedAt: time.Now().UTC(),
	}
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if c.UserId == "" || c.PostId == "" {
		return fmt.Errorf("%w: comment must reference a user and a post", ErrValidation)
	}
	return nil
}

func (c *Comment) IsOwnedBy(userID string) bool {
	return c.UserId == userID
}
