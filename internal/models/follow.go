package models

import "time"

// Follow is an ordered (follower -> followee) edge of the social graph.
// The pair is unique; rows are never updated.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"followerId" gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	FolloweeID uint      `json:"followeeId" gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateFollowRequest defines the request body for POST /follow
type CreateFollowRequest struct {
	FollowerID uint `json:"followerId" validate:"required"`
	FolloweeID uint `json:"followeeId" validate:"required,nefield=FollowerID"`
}
