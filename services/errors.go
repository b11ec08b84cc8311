package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidToken      = errors.New("invalid token")
	ErrPostNotFound      = errors.New("post not found")
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")
	ErrAlreadyFollowing  = errors.New("already following")
	ErrNotFollowing      = errors.New("not following")
	ErrInvalidCursor     = errors.New("invalid cursor")
	ErrNotAnArtist       = errors.New("user is not an artist")
	ErrRedisNotAvailable = errors.New("redis not available")
)

var ErrEmptyPost = errors.New("post must have a caption or media")
