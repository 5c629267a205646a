package repositories

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateFollow is returned when the (follower, followee) pair already exists
	ErrDuplicateFollow = errors.New("follow relationship already exists")
)
