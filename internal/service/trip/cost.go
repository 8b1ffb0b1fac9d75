package trip

import (
	"math"

	"fleet-platform/internal/domain"
)

// DefaultBaseRate is the tariff per kilometre.
const DefaultBaseRate = 150

// Estimate holds the derived figures of a trip.
type Estimate struct {
	Distance float64
	Duration float64
	Cost     float64
}

// WeightMultiplier is max(1, weight/1000).
func WeightMultiplier(weight float64) float64 {
	return math.Max(1, weight/1000)
}

// EstimateTrip prices a trip. Duration is in hours.
func EstimateTrip(distance, weight float64, priority domain.TripPriority, baseRate float64) Estimate {
	if baseRate <= 0 {
		baseRate = DefaultBaseRate
	}
	return Estimate{
		Distance: distance,
		Duration: 1.5 * distance,
		Cost:     distance * baseRate * WeightMultiplier(weight) * priority.Multiplier(),
	}
}
