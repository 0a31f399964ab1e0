package common

import "time"

// UserResult is the public profile view. It never carries the password hash.
type UserResult struct {
	Id             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type UserSummary struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProfileSummary struct {
	Id             string `json:"id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// UserRef is an owner or author reference resolved to its username.
type UserRef struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}
