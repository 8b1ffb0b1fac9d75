package realtime_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/realtime"
	testlog "fleet-platform/internal/testutil"
)

// failingSubscriber delegates to a hub and fails the n-th Subscribe call.
type failingSubscriber struct {
	hub    *realtime.Hub
	failAt int
	calls  int
}

func (s *failingSubscriber) Subscribe(topic realtime.Topic, f realtime.Filter, h realtime.Handler) (realtime.Subscription, error) {
	s.calls++
	if s.calls == s.failAt {
		return nil, errors.New("channel error")
	}
	return s.hub.Subscribe(topic, f, h)
}

func TestFeed_ConnectSubscriptionsByRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleDriver, 5},
		{domain.RoleSupervisor, 5},
		{domain.RoleContractor, 5},
		{domain.RoleAdmin, 5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			hub := realtime.NewHub(nil)
			f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, nil)

			require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: tt.role}))
			assert.Equal(t, realtime.StateConnected, f.State())
			assert.Equal(t, tt.want, f.Subscriptions())
			assert.Equal(t, tt.want, hub.Len())
		})
	}
}

func TestFeed_DriverGetsNoPaymentsButAssignments(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	var mu sync.Mutex
	var seen []realtime.Entry
	f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, func(e realtime.Entry) {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
	})
	require.NoError(t, f.Connect(domain.Actor{UserID: "d1", Role: domain.RoleDriver}))

	now := time.Now().UTC()
	hub.Dispatch(realtime.ChangeEvent{ID: "p1", Topic: realtime.TopicPaymentUpdates, CommitTimestamp: now,
		Record: map[string]any{"status": "failed"}})
	hub.Dispatch(realtime.ChangeEvent{ID: "t1", Topic: realtime.TopicTripUpdates, Type: realtime.EventInsert,
		CommitTimestamp: now, Record: map[string]any{"driver_id": "d1", "status": "scheduled"}})
	hub.Dispatch(realtime.ChangeEvent{ID: "t2", Topic: realtime.TopicTripUpdates, Type: realtime.EventInsert,
		CommitTimestamp: now, Record: map[string]any{"driver_id": "other", "status": "scheduled"}})

	kinds := map[realtime.Kind]int{}
	for _, e := range f.Snapshot() {
		kinds[e.Type]++
	}
	assert.Zero(t, kinds[realtime.KindPaymentUpdate])
	assert.Equal(t, 1, kinds[realtime.KindTripAssignment])
	assert.Equal(t, 2, kinds[realtime.KindTripUpdate])
	assert.Len(t, seen, 3)

	for _, e := range f.Snapshot() {
		if e.Type == realtime.KindTripAssignment {
			assert.Equal(t, realtime.PriorityHigh, e.Priority)
		}
	}
}

func TestFeed_NotificationsFilteredToUser(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, nil)
	require.NoError(t, f.Connect(domain.Actor{UserID: "s1", Role: domain.RoleSupervisor}))

	hub.Dispatch(realtime.ChangeEvent{ID: "n1", Topic: realtime.TopicUserNotifications,
		Record: map[string]any{"user_id": "s1", "type": "error"}})
	hub.Dispatch(realtime.ChangeEvent{ID: "n2", Topic: realtime.TopicUserNotifications,
		Record: map[string]any{"user_id": "someone", "type": "error"}})

	items := f.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, realtime.PriorityCritical, items[0].Priority)
	assert.False(t, items[0].Timestamp.IsZero())
}

func TestFeed_DuplicateDeliveryIgnored(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, nil)
	require.NoError(t, f.Connect(domain.Actor{UserID: "s1", Role: domain.RoleAdmin}))

	ev := realtime.ChangeEvent{ID: "dup", Topic: realtime.TopicMaintenanceAlerts, CommitTimestamp: time.Now()}
	hub.Dispatch(ev)
	hub.Dispatch(ev)

	assert.Len(t, f.Snapshot(), 1)
}

func TestFeed_SetupFailureReleasesSubscriptions(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	rec := testlog.New()
	sub := &failingSubscriber{hub: hub, failAt: 4}
	f := realtime.NewFeed(sub, nil, realtime.Classifier{}, rec.Logger(), nil)

	err := f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleAdmin})
	require.Error(t, err)

	assert.Equal(t, realtime.StateError, f.State())
	assert.Zero(t, f.Subscriptions())
	assert.Zero(t, hub.Len(), "no subscription may be left open after a failed setup")
	assert.Contains(t, rec.Events(), "realtime_setup_failed")
}

func TestFeed_CloseDiscardsLateEvents(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	var delivered int
	f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, func(realtime.Entry) { delivered++ })
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleSupervisor}))

	_, err := hub.Subscribe(realtime.TopicTruckTracking, realtime.Filter{}, func(ev realtime.ChangeEvent) {})
	require.NoError(t, err)

	f.Close()
	assert.Equal(t, realtime.StateDisconnected, f.State())
	assert.Equal(t, 1, hub.Len(), "only the foreign subscription remains")

	hub.Dispatch(realtime.ChangeEvent{ID: "x", Topic: realtime.TopicTruckTracking})
	assert.Zero(t, delivered)
	assert.Empty(t, f.Snapshot())
}

// capturingSubscriber records handlers without routing, to replay events after Close.
type capturingSubscriber struct {
	handlers []realtime.Handler
}

type noopSub struct{}

func (noopSub) Unsubscribe() {}

func (c *capturingSubscriber) Subscribe(_ realtime.Topic, _ realtime.Filter, h realtime.Handler) (realtime.Subscription, error) {
	c.handlers = append(c.handlers, h)
	return noopSub{}, nil
}

func TestFeed_MountedGuard(t *testing.T) {
	t.Parallel()

	sub := &capturingSubscriber{}
	var delivered int
	f := realtime.NewFeed(sub, nil, realtime.Classifier{}, nil, func(realtime.Entry) { delivered++ })
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleDriver}))
	require.NotEmpty(t, sub.handlers)

	sub.handlers[0](realtime.ChangeEvent{ID: "before", Topic: realtime.TopicTruckTracking})
	f.Close()
	sub.handlers[0](realtime.ChangeEvent{ID: "after", Topic: realtime.TopicTruckTracking})

	assert.Equal(t, 1, delivered)
	assert.Empty(t, f.Snapshot())
}

func TestFeed_ReconnectForOtherActor(t *testing.T) {
	t.Parallel()

	hub := realtime.NewHub(nil)
	f := realtime.NewFeed(hub, nil, realtime.Classifier{}, nil, nil)
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleAdmin}))
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleAdmin}))
	assert.Equal(t, 5, hub.Len())

	require.NoError(t, f.Connect(domain.Actor{UserID: "u2", Role: domain.RoleDriver}))
	assert.Equal(t, 5, hub.Len())
}

func TestFeed_ConnectWithoutSession(t *testing.T) {
	t.Parallel()

	f := realtime.NewFeed(realtime.NewHub(nil), nil, realtime.Classifier{}, nil, nil)
	assert.Error(t, f.Connect(domain.Actor{}))
	assert.Equal(t, realtime.StateDisconnected, f.State())
}

func TestFeed_CloseWaitsForEventInFlight(t *testing.T) {
	t.Parallel()

	sub := &capturingSubscriber{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := realtime.NewFeed(sub, nil, realtime.Classifier{}, nil, func(realtime.Entry) {
		once.Do(func() {
			close(entered)
			<-release
		})
	})
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleSupervisor}))
	h := sub.handlers[0]

	go h(realtime.ChangeEvent{ID: "slow", Topic: realtime.TopicTruckTracking})
	<-entered

	closed := make(chan struct{})
	go func() {
		f.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while an event was still being added")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the event finished")
	}

	h(realtime.ChangeEvent{ID: "late", Topic: realtime.TopicTruckTracking})
	assert.Empty(t, f.Snapshot(), "nothing added before or after Close survives it")
}

func TestFeed_CloseRacingDeliveriesLeavesEmptyBuffer(t *testing.T) {
	t.Parallel()

	sub := &capturingSubscriber{}
	f := realtime.NewFeed(sub, nil, realtime.Classifier{}, nil, nil)
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleAdmin}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				for _, h := range sub.handlers {
					h(realtime.ChangeEvent{ID: fmt.Sprintf("%d-%d", i, j), Topic: realtime.TopicTripUpdates})
				}
			}
		}(i)
	}
	f.Close()
	wg.Wait()

	assert.Empty(t, f.Snapshot())
}

func TestFeed_StaleHandlerIgnoredAfterReconnect(t *testing.T) {
	t.Parallel()

	sub := &capturingSubscriber{}
	f := realtime.NewFeed(sub, nil, realtime.Classifier{}, nil, nil)
	require.NoError(t, f.Connect(domain.Actor{UserID: "u1", Role: domain.RoleSupervisor}))
	stale := sub.handlers[0]

	require.NoError(t, f.Connect(domain.Actor{UserID: "u2", Role: domain.RoleSupervisor}))
	stale(realtime.ChangeEvent{ID: "old", Topic: realtime.TopicTruckTracking})
	assert.Empty(t, f.Snapshot())

	sub.handlers[len(sub.handlers)-1](realtime.ChangeEvent{ID: "new", Topic: realtime.TopicUserNotifications})
	assert.Len(t, f.Snapshot(), 1)
}
