package fanout

import (
	"fmt"

	"github.com/anonto42/nano-midea/notifier/internal/models"
)

// EventSubmission is the unit of work accepted by the Processor.
// TargetID is only meaningful for follow submissions and is zero when absent.
type EventSubmission struct {
	Type     string
	ActorID  uint
	TargetID uint
	Content  string
}

// Validate rejects submissions that cannot produce an event record.
func (s EventSubmission) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("%w: event type is required", ErrValidation)
	}
	if s.ActorID == 0 {
		return fmt.Errorf("%w: actor id is required", ErrValidation)
	}
	return nil
}

// Kind returns the closed kind of the submission's type.
func (s EventSubmission) Kind() Kind {
	return ParseKind(s.Type)
}

func (s EventSubmission) toEvent() *models.Event {
	ev := &models.Event{
		ProducerID: s.ActorID,
		Type:       s.Type,
		Content:    s.Content,
	}
	if s.Kind() == KindFollow {
		ev.TargetID = s.TargetID
	}
	return ev
}
