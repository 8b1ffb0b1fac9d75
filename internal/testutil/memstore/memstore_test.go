package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

func TestStore_RejectsWhatTheDatabaseRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	truck := s.AddTruck(domain.Truck{PlateNumber: "LAG-1"})
	driver := s.AddProfile(domain.Profile{Email: "d@fleet.test", Role: domain.RoleDriver})

	got, err := s.GetTruck(ctx, "LAG-1")
	require.NoError(t, err)
	require.Nil(t, got)

	cases := []struct {
		name   string
		trip   domain.Trip
		reason string
	}{
		{"malformed truck", domain.Trip{TruckID: "LAG-1", DriverID: driver.ID}, "Truck not found"},
		{"malformed driver", domain.Trip{TruckID: truck.ID, DriverID: "drv-1"}, "Driver not found"},
		{"malformed customer", domain.Trip{TruckID: truck.ID, DriverID: driver.ID, CustomerID: "acme"}, "Customer not found"},
	}
	for _, tc := range cases {
		tr := tc.trip
		err := s.InsertTrip(ctx, &tr)
		require.ErrorIs(t, err, apperr.ErrNotFound, tc.name)
		require.Equal(t, tc.reason, apperr.Reason(err, ""), tc.name)
	}

	tr := domain.Trip{TruckID: truck.ID, DriverID: driver.ID, CreatedBy: "u-1"}
	require.ErrorIs(t, s.InsertTrip(ctx, &tr), apperr.ErrInvalid)

	tr = domain.Trip{TruckID: truck.ID, DriverID: driver.ID, Status: domain.TripScheduled}
	require.NoError(t, s.InsertTrip(ctx, &tr))
	require.Empty(t, tr.CustomerID)

	err = s.InsertNotification(ctx, &domain.Notification{UserID: "someone"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.InsertPayment(ctx, &domain.Payment{UserID: "user-1", Provider: domain.ProviderStripe, Reference: "pi_1"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	require.Panics(t, func() { s.AddProfile(domain.Profile{ID: "adm"}) })
}
