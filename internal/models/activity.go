package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is something a user published, stored in MongoDB
type Activity struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"userId" bson:"user_id"`
	Type      string             `json:"type" bson:"type"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// CreateActivityRequest defines the request body for POST /activity
type CreateActivityRequest struct {
	UserID  uint   `json:"userId" validate:"required"`
	Type    string `json:"type" validate:"required,max=50"`
	Content string `json:"content" validate:"required,max=2000"`
}
