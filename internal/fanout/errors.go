package fanout

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a submission rejected before it reaches the queue.
	ErrValidation = errors.New("invalid event submission")
	// ErrProcessorClosed is returned by Enqueue once Close has been called.
	ErrProcessorClosed = errors.New("fan-out processor is closed")
)

// PersistenceError reports a failed store read or write during processing.
// ReceiverID is zero when the failure concerns the whole submission.
type PersistenceError struct {
	Stage      string
	ReceiverID uint
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.ReceiverID == 0 {
		return fmt.Sprintf("persistence failure at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("persistence failure at %s for receiver %d: %v", e.Stage, e.ReceiverID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeliveryError reports a realtime push that did not reach the receiver.
// The notification it concerns is already persisted.
type DeliveryError struct {
	ReceiverID     uint
	NotificationID uint
	Err            error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery of notification %d to receiver %d failed: %v", e.NotificationID, e.ReceiverID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
