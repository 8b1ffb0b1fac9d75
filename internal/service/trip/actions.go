package trip

import (
	"fmt"
	"time"

	"fleet-platform/internal/domain"
)

type stampFunc func(t *domain.Trip, now time.Time)

// stamps maps a target status to the timestamps it sets. Existing stamps are kept.
var stamps = map[domain.TripStatus]stampFunc{
	domain.TripInProgress: func(t *domain.Trip, now time.Time) {
		t.StartedAt = keep(t.StartedAt, now)
		t.ActualPickup = keep(t.ActualPickup, now)
	},
	domain.TripCompleted: func(t *domain.Trip, now time.Time) {
		t.CompletedAt = keep(t.CompletedAt, now)
		t.ActualDelivery = keep(t.ActualDelivery, now)
	},
	domain.TripCancelled: func(t *domain.Trip, now time.Time) {
		t.CancelledAt = keep(t.CancelledAt, now)
	},
}

func keep(cur *time.Time, now time.Time) *time.Time {
	if cur != nil {
		return cur
	}
	return &now
}

func statusMessage(t domain.Trip) (title, message string) {
	route := fmt.Sprintf("%s to %s", t.Origin, t.Destination)
	switch t.Status {
	case domain.TripCompleted:
		return "Trip Completed", "Your trip from " + route + " has been completed."
	case domain.TripCancelled:
		return "Trip Cancelled", "Your trip from " + route + " has been cancelled."
	case domain.TripInProgress:
		return "Trip Started", "Your trip from " + route + " is now in progress."
	case domain.TripDelayed:
		return "Trip Delayed", "Your trip from " + route + " has been delayed."
	default:
		return "Trip Updated", "Your trip from " + route + " is now " + string(t.Status) + "."
	}
}

func statusNotificationType(s domain.TripStatus) domain.NotificationType {
	switch s {
	case domain.TripCompleted:
		return domain.NotificationSuccess
	case domain.TripCancelled, domain.TripDelayed:
		return domain.NotificationWarning
	default:
		return domain.NotificationTrip
	}
}
