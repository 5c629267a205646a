package models

import "time"

// Notification is a per-receiver record derived from one event (PostgreSQL)
type Notification struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReceiverID uint      `json:"receiverId" gorm:"not null;index:idx_receiver_created,priority:1"`
	ActorID    uint      `json:"actorId" gorm:"not null;index"`
	Type       string    `json:"type" gorm:"size:50;not null;index"`
	Content    string    `json:"content" gorm:"type:text"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false;index"`
	CreatedAt  time.Time `json:"timestamp" gorm:"index:idx_receiver_created,priority:2"`
}

// UpdateNotificationRequest defines the request body for PATCH /notifications/:notificationId
type UpdateNotificationRequest struct {
	IsRead *bool `json:"isRead" validate:"required"`
}
