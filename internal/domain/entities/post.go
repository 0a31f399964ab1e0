package entities

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Post struct {
	Id          string
	StockSymbol string
	Title       string
	Description string
	Tags        []string
	UserId      string
	Likes       []string
	LikesCount  int
	Comments    []string
	CreatedAt   time.Time
}

func NewPost(userID, stockSymbol, title, description string, tags []string) *Post {
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		StockSymbol: strings.TrimSpace(stockSymbol),
		Title:       title,
		Description: description,
		Tags:        tags,
		UserId:      userID,
		Likes:       []string{},
		Comments:    []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

func (p *Post) Validate() error {
	if p.StockSymbol == "" {
		return fmt.Errorf("%w: stockSymbol is required", ErrValidation)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if p.UserId == "" {
		return fmt.Errorf("%w: owner is required", ErrValidation)
	}
	return nil
}

func (p *Post) IsOwnedBy(userID string) bool {
	return p.UserId == userID
}

func (p *Post) IsLikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}
