package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topic is a named realtime channel.
type Topic string

// Realtime topics.
const (
	TopicTruckTracking     Topic = "truck_tracking"
	TopicTripUpdates       Topic = "trip_updates"
	TopicMaintenanceAlerts Topic = "maintenance_alerts"
	TopicUserNotifications Topic = "user_notifications"
	TopicPaymentUpdates    Topic = "payment_updates"
)

// Topics returns every known topic.
func Topics() []Topic {
	return []Topic{
		TopicTruckTracking, TopicTripUpdates, TopicMaintenanceAlerts,
		TopicUserNotifications, TopicPaymentUpdates,
	}
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	for _, known := range Topics() {
		if t == known {
			return true
		}
	}
	return false
}

// EventType is the kind of row change.
type EventType string

// Row change kinds.
const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Valid reports whether t is a known change kind.
func (t EventType) Valid() bool {
	return t == EventInsert || t == EventUpdate || t == EventDelete
}

// ChangeEvent is a row change published on a topic.
type ChangeEvent struct {
	ID              string         `json:"id"`
	Topic           Topic          `json:"topic"`
	Table           string         `json:"table"`
	Type            EventType      `json:"type"`
	Record          map[string]any `json:"record"`
	OldRecord       map[string]any `json:"old_record,omitempty"`
	CommitTimestamp time.Time      `json:"commit_timestamp"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(topic Topic, table string, typ EventType, record map[string]any, at time.Time) ChangeEvent {
	return ChangeEvent{
		ID:              uuid.NewString(),
		Topic:           topic,
		Table:           table,
		Type:            typ,
		Record:          record,
		CommitTimestamp: at.UTC(),
	}
}

// Str returns a string column of the record, or "" when absent.
func (e ChangeEvent) Str(key string) string {
	if e.Record == nil {
		return ""
	}
	s, _ := e.Record[key].(string)
	return s
}

// Num returns a numeric column of the record.
func (e ChangeEvent) Num(key string) (float64, bool) {
	if e.Record == nil {
		return 0, false
	}
	switch v := e.Record[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Publisher publishes change events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}
