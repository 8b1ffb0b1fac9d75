package fleettx

import (
	"context"

	"fleet-platform/internal/domain"
)

// Repository is the set of row operations that must run inside one fleet transaction.
// Getters return (nil, nil) when the row does not exist.
type Repository interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	MarkProfileVerified(ctx context.Context, userID string, level int) (bool, error)

	GetTruckForUpdate(ctx context.Context, id string) (*domain.Truck, error)
	UpdateTruckStatus(ctx context.Context, id string, status domain.TruckStatus) error
	InsertTruckLocation(ctx context.Context, loc *domain.TruckLocation) error
	UpdateTruckPosition(ctx context.Context, loc domain.TruckLocation) error
	HasActiveTrip(ctx context.Context, truckID string) (bool, error)

	InsertTrip(ctx context.Context, t *domain.Trip) error
	GetTripForUpdate(ctx context.Context, id string) (*domain.Trip, error)
	UpdateTrip(ctx context.Context, t *domain.Trip) error

	InsertNotification(ctx context.Context, n *domain.Notification) error
	InsertVerification(ctx context.Context, v *domain.Verification) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
