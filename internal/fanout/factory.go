package fanout

import "github.com/anonto42/nano-midea/notifier/internal/models"

// NewNotification renders the notification for one receiver of ev. The
// content is bound from ev at call time and never re-read from storage.
func NewNotification(ev *models.Event, receiverID uint) *models.Notification {
	return &models.Notification{
		ReceiverID: receiverID,
		ActorID:    ev.ProducerID,
		Type:       ev.Type,
		Content:    specFor(ParseKind(ev.Type)).render(ev),
		IsRead:     false,
	}
}
