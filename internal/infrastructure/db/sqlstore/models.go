package sqlstore

import "time"

type UserModel struct {
	Id             string `gorm:"primaryKey;size:36"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	Bio            string
	ProfilePicture string
}

func (UserModel) TableName() string {
	return "users"
}

type PostModel struct {
	Id          string    `gorm:"primaryKey;size:36"`
	StockSymbol string    `gorm:"index;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	UserId      string    `gorm:"index;size:36;not null"`
	LikesCount  int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"index"`
}

func (PostModel) TableName() string {
	return "posts"
}

// PostTagModel keeps a post's tags in insertion order.
type PostTagModel struct {
	PostId   string `gorm:"primaryKey;size:36"`
	Position int    `gorm:"primaryKey"`
	Tag      string `gorm:"index;not null"`
}

func (PostTagModel) TableName() string {
	return "post_tags"
}

// PostLikeModel is one member of a post's likes set.
type PostLikeModel struct {
	PostId    string `gorm:"primaryKey;size:36"`
	UserId    string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

func (PostLikeModel) TableName() string {
	return "post_likes"
}

type CommentModel struct {
	Id        string `gorm:"primaryKey;size:36"`
	Text      string `gorm:"not null"`
	UserId    string `gorm:"size:36;not null"`
	PostId    string `gorm:"index;size:36;not null"`
	CreatedAt time.Time
}

func (CommentModel) TableName() string {
	return "comments"
}

// PostCommentModel is an entry of a post's ordered comment reference list.
type PostCommentModel struct {
	CommentId string `gorm:"primaryKey;size:36"`
	PostId    string `gorm:"index;size:36;not null"`
	Seq       int64  `gorm:"not null"`
}

func (PostCommentModel) TableName() string {
	return "post_comments"
}
