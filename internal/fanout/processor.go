package fanout

import (
	"context"
	"fmt"
	"sync"

	"github.com/anonto42/nano-midea/notifier/internal/events"
	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/rs/zerolog"
)

// EventAppender is the part of the event store the processor writes.
type EventAppender interface {
	AppendEvent(ctx context.Context, event *models.Event) error
}

// NotificationCreator is the part of the notification store the processor writes.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Deliverer pushes a persisted notification to the receiver's live connections.
type Deliverer interface {
	Deliver(ctx context.Context, notification *models.Notification) error
}

// Observer is told about every submission once the processor is done with it.
type Observer interface {
	OnSubmissionDone(sub EventSubmission, summary Summary)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(sub EventSubmission, summary Summary)

func (f ObserverFunc) OnSubmissionDone(sub EventSubmission, summary Summary) { f(sub, summary) }

// Summary describes the outcome of processing one submission.
type Summary struct {
	Event       *models.Event
	Candidates  int
	Created     int
	Skipped     int
	Failed      int
	Undelivered int
	// Err is set when the submission was aborted before fan-out.
	Err error
}

// Dependencies wires the processor to its stores and delivery channel.
type Dependencies struct {
	Events        EventAppender
	Follows       FollowerLister
	Users         UserGetter
	Notifications NotificationCreator
	Delivery      Deliverer
	// Publisher mirrors accepted events and created notifications; nil disables it.
	Publisher events.Publisher
	Observer  Observer
	Logger    zerolog.Logger
}

// Processor drains EventSubmissions strictly one at a time, in enqueue order.
// The queue is unbounded and Enqueue never blocks.
type Processor struct {
	events        EventAppender
	resolver      *Resolver
	gate          *Gate
	notifications NotificationCreator
	delivery      Deliverer
	publisher     events.Publisher
	observer      Observer
	log           zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []EventSubmission
	closed  bool
	started bool
	done    chan struct{}
}

func NewProcessor(deps Dependencies) *Processor {
	p := &Processor{
		events:        deps.Events,
		resolver:      NewResolver(deps.Follows),
		gate:          NewGate(deps.Users),
		notifications: deps.Notifications,
		delivery:      deps.Delivery,
		publisher:     deps.Publisher,
		observer:      deps.Observer,
		log:           deps.Logger.With().Str("component", "fanout").Logger(),
		done:          make(chan struct{}),
	}
	if p.publisher == nil {
		p.publisher = &events.NoopPublisher{}
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the single worker. Calling it more than once has no effect.
func (p *Processor) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	go p.run()
}

// Enqueue appends sub to the queue and returns without waiting for it to be processed.
func (p *Processor) Enqueue(sub EventSubmission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrProcessorClosed
	}
	p.queue = append(p.queue, sub)
	p.cond.Signal()
	return nil
}

// Pending returns the number of submissions waiting to start.
func (p *Processor) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close stops accepting submissions and waits until everything already
// queued has been processed, or until ctx is done.
func (p *Processor) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.cond.Broadcast()
	}
	started := p.started
	p.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) run() {
	defer close(p.done)
	p.log.Info().Msg("fan-out worker started")
	for {
		sub, ok := p.next()
		if !ok {
			p.log.Info().Msg("fan-out worker stopped")
			return
		}
		p.handle(sub)
	}
}

// next blocks until a submission is available. It reports false once the
// processor is closed and the queue is empty.
func (p *Processor) next() (EventSubmission, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return EventSubmission{}, false
	}
	sub := p.queue[0]
	p.queue[0] = EventSubmission{}
	p.queue = p.queue[1:]
	return sub, true
}

func (p *Processor) handle(sub EventSubmission) {
	var summary Summary
	defer func() {
		if r := recover(); r != nil {
			summary.Err = fmt.Errorf("panic while processing submission: %v", r)
			p.log.Error().Interface("panic", r).Str("type", sub.Type).Uint("actor_id", sub.ActorID).
				Msg("fan-out submission panicked")
		}
		if p.observer != nil {
			p.observer.OnSubmissionDone(sub, summary)
		}
	}()
	p.process(context.Background(), sub, &summary)
}

// process runs the whole pipeline for one submission, recording progress in
// summary as it goes. Per-candidate failures are logged and counted; only a
// failure to record the event or to resolve candidates aborts the submission.
func (p *Processor) process(ctx context.Context, sub EventSubmission, summary *Summary) {
	log := p.log.With().Str("type", sub.Type).Uint("actor_id", sub.ActorID).Logger()

	ev := sub.toEvent()
	if err := p.events.AppendEvent(ctx, ev); err != nil {
		summary.Err = &PersistenceError{Stage: "append event", Err: err}
		log.Error().Err(summary.Err).Msg("dropping submission")
		return
	}
	summary.Event = ev
	log = log.With().Str("event_id", ev.ID.Hex()).Logger()
	p.publish(ctx, log, events.TopicEventAccepted, events.EventAccepted{Event: ev})

	candidates, err := p.resolver.Resolve(ctx, ev)
	if err != nil {
		summary.Err = &PersistenceError{Stage: "resolve recipients", Err: err}
		log.Error().Err(summary.Err).Msg("dropping submission")
		return
	}
	summary.Candidates = len(candidates)

	for _, receiverID := range candidates {
		p.notify(ctx, log, ev, receiverID, summary)
	}

	log.Info().
		Int("candidates", summary.Candidates).
		Int("created", summary.Created).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("submission processed")
}

// notify gates, persists and delivers the notification for one candidate. A
// panic is counted as a failure for that candidate only.
func (p *Processor) notify(ctx context.Context, log zerolog.Logger, ev *models.Event, receiverID uint, summary *Summary) {
	created := false
	defer func() {
		if r := recover(); r != nil {
			if created {
				summary.Undelivered++
			} else {
				summary.Failed++
			}
			log.Error().Interface("panic", r).Uint("receiver_id", receiverID).Msg("skipping receiver after panic")
		}
	}()

	allowed, err := p.gate.Allow(ctx, receiverID, ev.Type)
	if err != nil {
		summary.Failed++
		log.Error().Err(&PersistenceError{Stage: "read preferences", ReceiverID: receiverID, Err: err}).
			Msg("skipping receiver")
		return
	}
	if !allowed {
		summary.Skipped++
		log.Debug().Uint("receiver_id", receiverID).Msg("receiver opted out")
		return
	}

	notification := NewNotification(ev, receiverID)
	if err := p.notifications.CreateNotification(ctx, notification); err != nil {
		summary.Failed++
		log.Error().Err(&PersistenceError{Stage: "create notification", ReceiverID: receiverID, Err: err}).
			Msg("skipping receiver")
		return
	}
	summary.Created++
	created = true

	if err := p.delivery.Deliver(ctx, notification); err != nil {
		summary.Undelivered++
		log.Warn().Err(&DeliveryError{ReceiverID: receiverID, NotificationID: notification.ID, Err: err}).
			Msg("realtime delivery failed, notification stays queryable")
	}
	p.publish(ctx, log, events.NotificationTopic(receiverID), events.NotificationCreated{Notification: notification})
}

func (p *Processor) publish(ctx context.Context, log zerolog.Logger, topic string, event any) {
	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("event bus publish failed")
	}
}
