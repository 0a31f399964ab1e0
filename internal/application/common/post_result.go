package common

import "time"

type PostResult struct {
	Id          string    `json:"id"`
	StockSymbol string    `json:"stockSymbol"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	User        *UserRef  `json:"user"`
	Likes       []string  `json:"likes"`
	LikesCount  int       `json:"likesCount"`
	Comments    []string  `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PostDetailResult is a post with its comments resolved.
type PostDetailResult struct {
	Id          string           `json:"id"`
	StockSymbol string           `json:"stockSymbol"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	User        *UserRef         `json:"user"`
	Likes       []string         `json:"likes"`
	LikesCount  int              `json:"likesCount"`
	Comments    []*CommentResult `json:"comments"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type CommentResult struct {
	Id        string    `json:"id"`
	Comment   string    `json:"comment"`
	User      *UserRef  `json:"user"`
	Post      string    `json:"post"`
	CreatedAt time.Time `json:"createdAt"`
}
