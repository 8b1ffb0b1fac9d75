package domain

import "time"

// TruckStatus represents the operational status of a truck.
type TruckStatus string

// Truck is a fleet vehicle. Current* fields mirror the latest TruckLocation row.
type Truck struct {
	ID               string
	PlateNumber      string
	Model            string
	Capacity         float64
	Status           TruckStatus
	CurrentLatitude  *float64
	CurrentLongitude *float64
	CurrentSpeed     *float64
	CurrentHeading   *float64
	LastLocationAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TruckLocation is one entry of the append-only location log.
type TruckLocation struct {
	ID         int64
	TruckID    string
	Latitude   float64
	Longitude  float64
	Speed      *float64
	Heading    *float64
	RecordedAt time.Time
}
