package realtime

import "fleet-platform/internal/domain"

// Classifier assigns entry priorities.
type Classifier struct {
	// HighAmount is the payment amount above which a payment update is high priority.
	HighAmount float64
}

// Priority returns the priority of ev seen as kind.
func (c Classifier) Priority(kind Kind, ev ChangeEvent) Priority {
	switch kind {
	case KindTripAssignment, KindMaintenanceAlert:
		return PriorityHigh
	case KindTruckLocation:
		return PriorityLow
	case KindTripUpdate:
		switch domain.TripStatus(ev.Str("status")) {
		case domain.TripDelayed, domain.TripCancelled:
			return PriorityHigh
		}
	case KindPaymentUpdate:
		if domain.PaymentStatus(ev.Str("status")) == domain.PaymentFailed {
			return PriorityHigh
		}
		if amount, ok := ev.Num("amount"); ok && c.HighAmount > 0 && amount > c.HighAmount {
			return PriorityHigh
		}
	case KindNotification:
		switch domain.NotificationType(ev.Str("type")) {
		case domain.NotificationError:
			return PriorityCritical
		case domain.NotificationWarning:
			return PriorityHigh
		}
	}
	return PriorityMedium
}
