// Package realtime pushes notifications to live websocket connections.
//
// Every connection declares the user it belongs to with a "join" message and
// is added to that user's room. Delivering a notification writes it to every
// connection in the receiver's room; an empty room is not an error, the
// notification stays queryable through the REST surface.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/rs/zerolog"
)

// Message names exchanged over the websocket.
const (
	EventJoin            = "join"
	EventJoined          = "joined"
	EventNewNotification = "newNotification"
	EventError           = "error"
)

// DefaultSendBuffer is the per-connection outbound queue length.
const DefaultSendBuffer = 32

// ErrBacklogged is returned when a connection's outbound queue is full and
// the message was dropped for it.
var ErrBacklogged = errors.New("connection send buffer full")

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub is the room registry. It is safe for concurrent use and independent of
// the fan-out queue.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[uint]map[*Conn]struct{}
	sendBuffer int
	log        zerolog.Logger
}

func NewHub(sendBuffer int, log zerolog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		rooms:      make(map[uint]map[*Conn]struct{}),
		sendBuffer: sendBuffer,
		log:        log.With().Str("component", "realtime").Logger(),
	}
}

// join adds c to userID's room. Membership is additive: a connection that
// declares several ids is in every one of their rooms until it disconnects.
func (h *Hub) join(c *Conn, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Conn]struct{})
		h.rooms[userID] = room
	}
	room[c] = struct{}{}
	if c.rooms == nil {
		c.rooms = make(map[uint]struct{})
	}
	c.rooms[userID] = struct{}{}
}

// leave drops c from every room it joined.
func (h *Hub) leave(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID := range c.rooms {
		room := h.rooms[userID]
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
	c.rooms = nil
}

// RoomSize returns how many live connections belong to userID.
func (h *Hub) RoomSize(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Deliver emits the notification to every connection in the receiver's room.
// Connections whose queue is full miss the message; their failures are joined
// into the returned error.
func (h *Hub) Deliver(ctx context.Context, notification *models.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	frame, err := json.Marshal(Envelope{Event: EventNewNotification, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	h.mu.RLock()
	room := h.rooms[notification.ReceiverID]
	targets := make([]*Conn, 0, len(room))
	for c := range room {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var errs []error
	for _, c := range targets {
		if !c.enqueue(frame) {
			errs = append(errs, fmt.Errorf("connection %s: %w", c.id, ErrBacklogged))
		}
	}
	if len(targets) > 0 {
		h.log.Debug().Uint("receiver_id", notification.ReceiverID).Int("connections", len(targets)).
			Msg("notification pushed")
	}
	return errors.Join(errs...)
}
