package events

import (
	"context"
	"strconv"

	"github.com/anonto42/nano-midea/notifier/internal/models"
)

// Event topic constants
const (
	TopicEventAccepted = "notifier.event.accepted"

	// Notification topics are suffixed with the receiver id, so a consumer can
	// subscribe to "notifier.notification.>" or to a single receiver.
	topicNotificationPrefix = "notifier.notification."
)

// NotificationTopic returns the subject a notification for receiverID is published on.
func NotificationTopic(receiverID uint) string {
	return topicNotificationPrefix + strconv.FormatUint(uint64(receiverID), 10)
}

// Event types

type EventAccepted struct {
	Event *models.Event `json:"event"`
}

type NotificationCreated struct {
	Notification *models.Notification `json:"notification"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
