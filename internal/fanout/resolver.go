package fanout

import (
	"context"

	"github.com/anonto42/nano-midea/notifier/internal/models"
)

// FollowerLister is the part of the follow store the resolver reads.
type FollowerLister interface {
	GetFollowerIDs(ctx context.Context, followeeID uint) ([]uint, error)
}

// Resolver computes the candidate receivers of an event.
type Resolver struct {
	follows FollowerLister
}

func NewResolver(follows FollowerLister) *Resolver {
	return &Resolver{follows: follows}
}

// Resolve returns candidates in the order they should be processed.
// Follow events address their target; every other kind addresses the
// producer's followers.
func (r *Resolver) Resolve(ctx context.Context, ev *models.Event) ([]uint, error) {
	switch specFor(ParseKind(ev.Type)).audience {
	case audienceTarget:
		if ev.TargetID == 0 {
			return nil, nil
		}
		return []uint{ev.TargetID}, nil
	default:
		return r.follows.GetFollowerIDs(ctx, ev.ProducerID)
	}
}
