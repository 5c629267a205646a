package fanout

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
)

// store is an in-memory stand-in for every repository the processor touches.
type store struct {
	mu sync.Mutex

	events        []*models.Event
	users         map[uint]*models.User
	followers     map[uint][]uint
	notifications []*models.Notification
	nextID        uint

	// appendHook runs before an event is stored; a non-nil result fails the append.
	appendHook func(ev *models.Event) error
	// createErr fails CreateNotification for the listed receivers.
	createErr map[uint]error
	userErr   map[uint]error
}

func newStore() *store {
	return &store{
		users:     make(map[uint]*models.User),
		followers: make(map[uint][]uint),
	}
}

func (s *store) addUser(id uint, prefs models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: id, Name: "user"}
	if prefs != nil {
		u.Preferences = datatypes.NewJSONType(prefs)
	}
	s.users[id] = u
}

func (s *store) follow(follower, followee uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followers[followee] = append(s.followers[followee], follower)
}

func (s *store) AppendEvent(ctx context.Context, ev *models.Event) error {
	if s.appendHook != nil {
		if err := s.appendHook(ev); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = primitive.NewObjectID()
	ev.CreatedAt = time.Now().UTC()
	s.events = append(s.events, ev)
	return nil
}

func (s *store) GetFollowerIDs(ctx context.Context, followeeID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.followers[followeeID]...), nil
}

func (s *store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.userErr[id]; err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[n.ReceiverID]; err != nil {
		return err
	}
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now().UTC()
	cp := *n
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s *store) notificationsFor(receiverID uint) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.ReceiverID == receiverID {
			out = append(out, *n)
		}
	}
	return out
}

func (s *store) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type+":"+ev.Content)
	}
	return out
}

// recorder captures deliveries, optionally failing them.
type recorder struct {
	mu        sync.Mutex
	delivered []models.Notification
	err       error
	// panicFor makes Deliver panic for the listed receivers.
	panicFor map[uint]bool
}

func (r *recorder) Deliver(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicFor[n.ReceiverID] {
		panic("delivery exploded")
	}
	if r.err != nil {
		return r.err
	}
	r.delivered = append(r.delivered, *n)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}
