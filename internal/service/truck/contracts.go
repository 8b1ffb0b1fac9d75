package truck

import (
	"context"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/fleettx"
)

type repository interface {
	WithTx(ctx context.Context, fn func(tx fleettx.Repository) error) error
	GetTruck(ctx context.Context, id string) (*domain.Truck, error)
	ListTrucks(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error)
	LatestLocations(ctx context.Context) ([]domain.TruckLocation, error)
	LocationHistory(ctx context.Context, truckID string, limit int) ([]domain.TruckLocation, error)
}
