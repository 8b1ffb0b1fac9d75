package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole_CanManageTrips(t *testing.T) {
	t.Parallel()

	require.True(t, RoleSupervisor.CanManageTrips())
	require.True(t, RoleAdmin.CanManageTrips())
	require.True(t, RoleContractor.CanManageTrips())
	require.False(t, RoleDriver.CanManageTrips())
	require.False(t, Role("guest").CanManageTrips())
}

func TestTripPriority_Multiplier(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.5, PriorityHigh.Multiplier())
	require.Equal(t, 0.8, PriorityLow.Multiplier())
	require.Equal(t, 1.0, PriorityMedium.Multiplier())
	require.Equal(t, 1.0, TripPriority("").Multiplier())
}

func TestTripStatus_Terminal(t *testing.T) {
	t.Parallel()

	require.True(t, TripCompleted.Terminal())
	require.True(t, TripCancelled.Terminal())
	require.False(t, TripDelayed.Terminal())
	require.False(t, TripInProgress.Terminal())
}

func TestParseProvider(t *testing.T) {
	t.Parallel()

	p, ok := ParseProvider("  Paystack ")
	require.True(t, ok)
	require.Equal(t, ProviderPaystack, p)

	_, ok = ParseProvider("paypal")
	require.False(t, ok)
	require.Len(t, Providers(), 3)
}

func TestVerificationType_Level(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2, VerificationBVN.Level())
	require.Equal(t, 1, VerificationNIN.Level())
	require.Equal(t, 1, VerificationDriversLicense.Level())
}

func TestValidateElevenDigits(t *testing.T) {
	t.Parallel()

	require.True(t, ValidateElevenDigits("12345678901"))
	require.False(t, ValidateElevenDigits("1234567890"))
	require.False(t, ValidateElevenDigits("1234567890a"))
}

func TestValidID(t *testing.T) {
	t.Parallel()

	require.True(t, ValidID("0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e01"))
	require.True(t, ValidID("0B7E1C52-2F1D-4A47-9C1E-5D0F3B8A6E01"))
	for _, id := range []string{"", "missing", "42", "0b7e1c522f1d4a479c1e5d0f3b8a6e01",
		"{0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e01}", "0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6eZZ"} {
		require.False(t, ValidID(id), id)
	}
}
