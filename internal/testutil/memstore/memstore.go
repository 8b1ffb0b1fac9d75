// Package memstore is an in-memory fleet store for service and handler tests. It mirrors
// the semantics of repository.Store, including transaction rollback.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/fleettx"
)

type state struct {
	profiles      map[string]domain.Profile
	trucks        map[string]domain.Truck
	locations     []domain.TruckLocation
	trips         map[string]domain.Trip
	payments      map[string]domain.Payment
	notifications map[string]domain.Notification
	verifications []domain.Verification
	subscriptions map[string]domain.Subscription
	schemaApplied bool
}

func newState() state {
	return state{
		profiles:      map[string]domain.Profile{},
		trucks:        map[string]domain.Truck{},
		trips:         map[string]domain.Trip{},
		payments:      map[string]domain.Payment{},
		notifications: map[string]domain.Notification{},
		subscriptions: map[string]domain.Subscription{},
		schemaApplied: true,
	}
}

func (s state) clone() state {
	c := state{
		profiles:      make(map[string]domain.Profile, len(s.profiles)),
		trucks:        make(map[string]domain.Truck, len(s.trucks)),
		locations:     append([]domain.TruckLocation(nil), s.locations...),
		trips:         make(map[string]domain.Trip, len(s.trips)),
		payments:      make(map[string]domain.Payment, len(s.payments)),
		notifications: make(map[string]domain.Notification, len(s.notifications)),
		verifications: append([]domain.Verification(nil), s.verifications...),
		subscriptions: make(map[string]domain.Subscription, len(s.subscriptions)),
		schemaApplied: s.schemaApplied,
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.trucks {
		c.trucks[k] = v
	}
	for k, v := range s.trips {
		c.trips[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.subscriptions {
		c.subscriptions[k] = v
	}
	return c
}

// Store is the in-memory store.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state
	seq  int64

	calls map[string]int
	fail  map[string]error

	// Now stamps created rows.
	Now func() time.Time
}

var _ fleettx.Repository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		st:    newState(),
		calls: map[string]int{},
		fail:  map[string]error{},
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// FailOn makes every later call of method return err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

// Calls returns how many times method was called.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls returns the number of store calls of any method.
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *Store) enter(method string) error {
	s.calls[method]++
	return s.fail[method]
}

// WithTx runs fn against the store and restores the previous state when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx fleettx.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	if err := s.enter("WithTx"); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Seed helpers.

// AddProfile stores p, assigning an id when empty.
func (s *Store) AddProfile(p domain.Profile) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	mustID("profile", p.ID)
	if p.Status == "" {
		p.Status = domain.ProfileActive
	}
	p.CreatedAt, p.UpdatedAt = s.Now(), s.Now()
	s.st.profiles[p.ID] = p
	return p
}

// AddTruck stores t, assigning an id when empty.
func (s *Store) AddTruck(t domain.Truck) domain.Truck {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	mustID("truck", t.ID)
	if t.Status == "" {
		t.Status = domain.TruckAvailable
	}
	t.CreatedAt, t.UpdatedAt = s.Now(), s.Now()
	s.st.trucks[t.ID] = t
	return t
}

// AddTrip stores t, assigning an id when empty.
func (s *Store) AddTrip(t domain.Trip) domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	mustID("trip", t.ID)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.Now()
	}
	t.UpdatedAt = t.CreatedAt
	s.st.trips[t.ID] = t
	return t
}

// AddPayment stores p.
func (s *Store) AddPayment(p domain.Payment) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.st.payments[payKey(p.Provider, p.Reference)] = p
	return p
}

// SetSchemaApplied toggles whether the schema tables exist.
func (s *Store) SetSchemaApplied(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.schemaApplied = v
}

// Inspection helpers.

// Truck returns a stored truck.
func (s *Store) Truck(id string) (domain.Truck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.trucks[id]
	return t, ok
}

// Trip returns a stored trip.
func (s *Store) Trip(id string) (domain.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.trips[id]
	return t, ok
}

// Trips returns every stored trip.
func (s *Store) Trips() []domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Trip, 0, len(s.st.trips))
	for _, t := range s.st.trips {
		out = append(out, t)
	}
	return out
}

// Profile returns a stored profile.
func (s *Store) Profile(id string) (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.profiles[id]
	return p, ok
}

// Payment returns a stored payment.
func (s *Store) Payment(provider domain.Provider, reference string) (domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.payments[payKey(provider, reference)]
	return p, ok
}

// Notifications returns the notifications of userID.
func (s *Store) Notifications(userID string) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.st.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// NotificationCount returns the number of stored notifications.
func (s *Store) NotificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.notifications)
}

// Verifications returns every stored verification.
func (s *Store) Verifications() []domain.Verification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Verification(nil), s.st.verifications...)
}

// Subscription returns a stored subscription.
func (s *Store) Subscription(stripeID string) (domain.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.st.subscriptions[stripeID]
	return sub, ok
}

func payKey(p domain.Provider, ref string) string { return string(p) + "/" + ref }

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("memstore: clone map: %v", err))
	}
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	return out
}

func (s *Store) isActiveTrip(t domain.Trip) bool {
	return t.Status == domain.TripScheduled || t.Status == domain.TripInProgress || t.Status == domain.TripDelayed
}

// mustID keeps seeded keys in the form the database accepts.
func mustID(what, id string) {
	if !domain.ValidID(id) {
		panic(fmt.Sprintf("memstore: %s id %q is not a UUID", what, id))
	}
}

func errNotFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, apperr.ErrNotFound)
}
