//go:generate mockgen -source=contracts.go -destination=trip_mocks_test.go -package=trip_test

package trip

import (
	"context"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/fleettx"
)

type repository interface {
	WithTx(ctx context.Context, fn func(tx fleettx.Repository) error) error
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	ListTrips(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
}

// DistanceEstimator estimates the road distance between two places, in kilometres.
type DistanceEstimator interface {
	Estimate(ctx context.Context, origin, destination string) (float64, error)
}
