package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/notifier/internal/fanout"
	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
)

type memoryStore struct {
	mu            sync.Mutex
	users         map[uint]*models.User
	follows       []models.Follow
	notifications map[uint]*models.Notification
	activities    []models.Activity
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[uint]*models.User),
		notifications: make(map[uint]*models.Notification),
	}
}

func (s *memoryStore) addUser(id uint, name string) {
	u := models.NewUser(name)
	u.ID = id
	s.users[id] = u
}

func (s *memoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = uint(len(s.users) + 1)
	s.users[user.ID] = user
	return nil
}

func (s *memoryStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (s *memoryStore) GetUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.users) == 0 {
		return nil, nil
	}
	out := make([]models.User, 0, len(s.users))
	for id := uint(1); len(out) < len(s.users); id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memoryStore) UpdatePreferences(ctx context.Context, id uint, changes map[string]bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	prefs := models.Preferences{}
	for k, v := range u.Preferences.Data() {
		prefs[k] = v
	}
	for k, v := range changes {
		prefs[k] = v
	}
	u.Preferences = datatypes.NewJSONType(prefs)
	return u, nil
}

func (s *memoryStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if f.FollowerID == follow.FollowerID && f.FolloweeID == follow.FolloweeID {
			return repositories.ErrDuplicateFollow
		}
	}
	follow.ID = uint(len(s.follows) + 1)
	follow.CreatedAt = time.Now()
	s.follows = append(s.follows, *follow)
	return nil
}

func (s *memoryStore) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FolloweeID == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) GetFollowerIDs(ctx context.Context, followeeID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for _, f := range s.follows {
		if f.FolloweeID == followeeID {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

func (s *memoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uint(len(s.notifications) + 1)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

// FetchForReceiver returns newest first, ids breaking ties, and marks everything read.
func (s *memoryStore) FetchForReceiver(ctx context.Context, receiverID uint, notificationType string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for id := uint(len(s.notifications)); id >= 1; id-- {
		n := s.notifications[id]
		if n.ReceiverID != receiverID {
			continue
		}
		if notificationType == "" || notificationType == repositories.AllTypes || n.Type == notificationType {
			out = append(out, *n)
		}
	}
	for _, n := range s.notifications {
		if n.ReceiverID == receiverID {
			n.IsRead = true
		}
	}
	return out, nil
}

func (s *memoryStore) GetUnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) UpdateReadStatus(ctx context.Context, id uint, isRead bool) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	n.IsRead = isRead
	cp := *n
	return &cp, nil
}

func (s *memoryStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	s.activities = append(s.activities, *a)
	return nil
}

func (s *memoryStore) GetActivitiesByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Activity{}
	for i := len(s.activities) - 1; i >= 0; i-- {
		if s.activities[i].UserID == userID {
			out = append(out, s.activities[i])
		}
	}
	if int(skip) >= len(out) {
		return []models.Activity{}, nil
	}
	out = out[skip:]
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type queueRecorder struct {
	mu   sync.Mutex
	subs []fanout.EventSubmission
}

func (q *queueRecorder) Enqueue(sub fanout.EventSubmission) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subs = append(q.subs, sub)
	return nil
}

func (q *queueRecorder) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.subs)
}

func (q *queueRecorder) submissions() []fanout.EventSubmission {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]fanout.EventSubmission(nil), q.subs...)
}
