package domain

import "time"

type (
	// TripStatus represents the lifecycle status of a trip.
	TripStatus string
	// TripPriority affects trip pricing.
	TripPriority string
)

// Cargo describes optional cargo metadata of a trip.
type Cargo struct {
	Type        string
	Weight      float64
	Description string
}

// Trip is a scheduled haul of one truck by one driver.
type Trip struct {
	ID                string
	TruckID           string
	DriverID          string
	CustomerID        string
	Origin            string
	Destination       string
	ScheduledPickup   *time.Time
	ScheduledDelivery *time.Time
	ActualPickup      *time.Time
	ActualDelivery    *time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	Status            TripStatus
	Priority          TripPriority
	Cargo             Cargo
	EstimatedDistance float64
	EstimatedDuration float64
	EstimatedCost     float64
	Notes             string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TripFilter narrows trip listings.
type TripFilter struct {
	DriverID   string
	CustomerID string
	CreatedBy  string
	TruckID    string
	Status     TripStatus
	Limit      *int
	Offset     *int
}

// TripStatusUpdate is a requested status transition.
type TripStatusUpdate struct {
	TripID string
	Status TripStatus
	Notes  *string
}

// TripStats aggregates trips for dashboards.
type TripStats struct {
	ByStatus        map[TripStatus]int
	Total           int
	Completed       int
	CompletedOnTime int
	CompletedValue  float64
}
