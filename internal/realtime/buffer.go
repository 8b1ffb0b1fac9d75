package realtime

import (
	"sort"
	"sync"
	"time"
)

// DefaultBufferSize is the number of entries kept per feed.
const DefaultBufferSize = 100

// Priority ranks feed entries.
type Priority string

// Entry priorities.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Kind is the normalized type of a feed entry.
type Kind string

// Feed entry kinds.
const (
	KindTruckLocation    Kind = "truck_location"
	KindTripUpdate       Kind = "trip_update"
	KindTripAssignment   Kind = "trip_assignment"
	KindMaintenanceAlert Kind = "maintenance_alert"
	KindPaymentUpdate    Kind = "payment_update"
	KindNotification     Kind = "notification"
)

// Entry is a normalized change event held by a feed.
type Entry struct {
	ID        string         `json:"id"`
	Type      Kind           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
	Priority  Priority       `json:"priority"`
}

// Buffer keeps the newest entries sorted by timestamp, newest first. Entries with an id
// already held are ignored.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	items    []Entry
}

// NewBuffer creates a buffer holding at most capacity entries.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{capacity: capacity, items: make([]Entry, 0, capacity+1)}
}

// Add inserts e and reports whether it was kept.
func (b *Buffer) Add(e Entry) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, it := range b.items {
		if it.ID == e.ID {
			return false
		}
	}

	b.items = append([]Entry{e}, b.items...)
	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].Timestamp.After(b.items[j].Timestamp)
	})

	kept := true
	if len(b.items) > b.capacity {
		dropped := b.items[b.capacity]
		kept = dropped.ID != e.ID
		b.items = b.items[:b.capacity]
	}
	return kept
}

// Items returns a copy of the entries, newest first.
func (b *Buffer) Items() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of entries held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Reset drops every entry.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = b.items[:0]
}
