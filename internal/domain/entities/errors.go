package entities

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("already exists")
	ErrUnauthorized    = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked yet")
	ErrTooManyRequests = errors.New("too many requests")
)
