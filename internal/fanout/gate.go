package fanout

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
)

// UserGetter is the part of the user store the gate reads.
type UserGetter interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Gate decides per receiver whether a notification should be materialized.
type Gate struct {
	users UserGetter
}

func NewGate(users UserGetter) *Gate {
	return &Gate{users: users}
}

// Allow reads the receiver's current preferences. A receiver that no longer
// exists is denied without error.
func (g *Gate) Allow(ctx context.Context, receiverID uint, eventType string) (bool, error) {
	user, err := g.users.GetUserByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return Allowed(user, eventType), nil
}

// Allowed applies the preference rule to an already loaded user.
// Missing keys are allowed.
func Allowed(user *models.User, eventType string) bool {
	enabled, ok := user.Wants(PreferenceKey(eventType))
	if !ok {
		return true
	}
	return enabled
}
