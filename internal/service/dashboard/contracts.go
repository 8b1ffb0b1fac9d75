package dashboard

import (
	"context"

	"fleet-platform/internal/domain"
)

type repository interface {
	TripStats(ctx context.Context, f domain.TripFilter) (domain.TripStats, error)
	ListTrips(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	CountTrucksByStatus(ctx context.Context) (map[domain.TruckStatus]int, error)
	SumCompletedPayments(ctx context.Context, userID string) (map[string]float64, error)
}
