package realtime

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
)

// State is the connection state of a feed.
type State string

// Feed states.
const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

type plan struct {
	topic  Topic
	filter Filter
	kind   Kind
}

// Feed is the realtime view of one session. It holds one subscription per topic the
// session may see and collects their events into a Buffer.
type Feed struct {
	sub        Subscriber
	buf        *Buffer
	classifier Classifier
	logger     logx.Logger
	onEntry    func(Entry)
	now        func() time.Time

	mu      sync.Mutex
	state   State
	actor   domain.Actor
	subs    []Subscription
	mounted atomic.Bool
	epoch   atomic.Uint64

	// gate is held shared by handlers while they add an entry and exclusively by unmount.
	gate sync.RWMutex
}

// NewFeed creates a disconnected feed. onEntry, when set, is called for every entry kept.
func NewFeed(sub Subscriber, buf *Buffer, classifier Classifier, logger logx.Logger, onEntry func(Entry)) *Feed {
	if buf == nil {
		buf = NewBuffer(DefaultBufferSize)
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Feed{
		sub:        sub,
		buf:        buf,
		classifier: classifier,
		logger:     logger,
		onEntry:    onEntry,
		now:        func() time.Time { return time.Now().UTC() },
		state:      StateDisconnected,
	}
}

func plansFor(actor domain.Actor) []plan {
	plans := []plan{
		{topic: TopicTruckTracking, kind: KindTruckLocation},
		{topic: TopicTripUpdates, kind: KindTripUpdate},
		{topic: TopicMaintenanceAlerts, kind: KindMaintenanceAlert},
	}
	if actor.Role.CanViewPayments() {
		plans = append(plans, plan{topic: TopicPaymentUpdates, kind: KindPaymentUpdate})
	}
	plans = append(plans, plan{
		topic:  TopicUserNotifications,
		filter: Filter{Field: "user_id", Value: actor.UserID},
		kind:   KindNotification,
	})
	if actor.Role == domain.RoleDriver {
		plans = append(plans, plan{
			topic:  TopicTripUpdates,
			filter: Filter{Type: EventInsert, Field: "driver_id", Value: actor.UserID},
			kind:   KindTripAssignment,
		})
	}
	return plans
}

// Connect opens the subscriptions of actor. A feed already connected for another actor is torn
// down first. If any subscription fails, the ones already opened are released and the feed
// ends in StateError.
func (f *Feed) Connect(actor domain.Actor) error {
	if actor.IsZero() {
		return errors.New("connect feed: no session")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateConnected && f.actor == actor {
		return nil
	}
	if len(f.subs) > 0 {
		f.unmount()
		f.releaseLocked()
		f.buf.Reset()
	}

	f.state = StateConnecting
	f.actor = actor
	epoch := f.epoch.Add(1)
	f.mounted.Store(true)

	for _, p := range plansFor(actor) {
		s, err := f.sub.Subscribe(p.topic, p.filter, f.handler(p.kind, epoch))
		if err != nil {
			f.unmount()
			f.releaseLocked()
			f.state = StateError
			f.logger.Error("realtime feed setup failed",
				logx.String("event", "realtime_setup_failed"),
				logx.String("user_id", actor.UserID),
				logx.String("topic", string(p.topic)),
				logx.Err(err),
			)
			return fmt.Errorf("subscribe %s: %w", p.topic, err)
		}
		f.subs = append(f.subs, s)
	}

	f.state = StateConnected
	f.logger.Info("realtime feed connected",
		logx.String("event", "realtime_connected"),
		logx.String("user_id", actor.UserID),
		logx.String("role", string(actor.Role)),
		logx.Int("subscriptions", len(f.subs)),
	)
	return nil
}

// handler builds the callback of one subscription. It drops events once the feed is
// unmounted or reconnected under a newer epoch.
func (f *Feed) handler(kind Kind, epoch uint64) Handler {
	return func(ev ChangeEvent) {
		f.gate.RLock()
		defer f.gate.RUnlock()
		if !f.mounted.Load() || f.epoch.Load() != epoch {
			return
		}
		ts := ev.CommitTimestamp
		if ts.IsZero() {
			ts = f.now()
		}
		e := Entry{
			ID:        string(kind) + ":" + ev.ID,
			Type:      kind,
			Timestamp: ts,
			Data:      ev.Record,
			Priority:  f.classifier.Priority(kind, ev),
		}
		if f.buf.Add(e) && f.onEntry != nil {
			f.onEntry(e)
		}
	}
}

// unmount waits for handlers already adding an entry, then stops new ones. It must run
// before the buffer is reset.
func (f *Feed) unmount() {
	f.gate.Lock()
	f.mounted.Store(false)
	f.gate.Unlock()
}

func (f *Feed) releaseLocked() {
	for _, s := range f.subs {
		s.Unsubscribe()
	}
	f.subs = nil
}

// Close releases every subscription and clears the buffer. An event being added when Close
// starts finishes first; events delivered after that are discarded.
func (f *Feed) Close() {
	f.unmount()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseLocked()
	f.buf.Reset()
	f.state = StateDisconnected
	f.actor = domain.Actor{}
}

// State returns the current state.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot returns the buffered entries, newest first.
func (f *Feed) Snapshot() []Entry {
	return f.buf.Items()
}

// Subscriptions returns the number of open subscriptions.
func (f *Feed) Subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
