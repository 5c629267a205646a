package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is the immutable record of an action that triggers fan-out (MongoDB, append only)
type Event struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProducerID uint               `json:"producerId" bson:"producer_id"`
	Type       string             `json:"type" bson:"type"`
	TargetID   uint               `json:"targetId,omitempty" bson:"target_id,omitempty"`
	Content    string             `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}
