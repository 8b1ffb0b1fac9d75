package realtime

import (
	"time"

	"fleet-platform/internal/domain"
)

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// TripRecord renders a trip row.
func TripRecord(t domain.Trip) map[string]any {
	return map[string]any{
		"id":                 t.ID,
		"truck_id":           t.TruckID,
		"driver_id":          t.DriverID,
		"customer_id":        t.CustomerID,
		"origin":             t.Origin,
		"destination":        t.Destination,
		"status":             string(t.Status),
		"priority":           string(t.Priority),
		"estimated_cost":     t.EstimatedCost,
		"estimated_distance": t.EstimatedDistance,
		"scheduled_pickup":   timeOrNil(t.ScheduledPickup),
		"scheduled_delivery": timeOrNil(t.ScheduledDelivery),
		"started_at":         timeOrNil(t.StartedAt),
		"completed_at":       timeOrNil(t.CompletedAt),
		"cancelled_at":       timeOrNil(t.CancelledAt),
		"notes":              t.Notes,
	}
}

// TruckRecord renders a truck row.
func TruckRecord(t domain.Truck) map[string]any {
	return map[string]any{
		"id":                t.ID,
		"plate_number":      t.PlateNumber,
		"status":            string(t.Status),
		"current_latitude":  floatOrNil(t.CurrentLatitude),
		"current_longitude": floatOrNil(t.CurrentLongitude),
		"last_location_at":  timeOrNil(t.LastLocationAt),
	}
}

// LocationRecord renders a truck_locations row.
func LocationRecord(l domain.TruckLocation) map[string]any {
	return map[string]any{
		"id":          l.ID,
		"truck_id":    l.TruckID,
		"latitude":    l.Latitude,
		"longitude":   l.Longitude,
		"speed":       floatOrNil(l.Speed),
		"heading":     floatOrNil(l.Heading),
		"recorded_at": l.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
}

// PaymentRecord renders a payment row.
func PaymentRecord(p domain.Payment) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"user_id":   p.UserID,
		"provider":  string(p.Provider),
		"amount":    p.Amount,
		"currency":  p.Currency,
		"status":    string(p.Status),
		"reference": p.Reference,
		"paid_at":   timeOrNil(p.PaidAt),
	}
}

// NotificationRecord renders a notification row.
func NotificationRecord(n domain.Notification) map[string]any {
	return map[string]any{
		"id":      n.ID,
		"user_id": n.UserID,
		"title":   n.Title,
		"message": n.Message,
		"type":    string(n.Type),
	}
}
