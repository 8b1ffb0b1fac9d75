package setup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/service/setup"
	testlog "fleet-platform/internal/testutil"
	"fleet-platform/internal/testutil/memstore"
)

const (
	firstID  = "0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e01"
	adminID  = "0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e02"
	superID  = "0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e03"
	driverID = "0b7e1c52-2f1d-4a47-9c1e-5d0f3b8a6e04"
)

func TestStatus_ReportsMissingTables(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.SetSchemaApplied(false)
	svc := setup.NewService(store, testlog.New().Logger(), time.Second)

	st, err := svc.Status(context.Background())
	require.NoError(t, err)
	require.False(t, st.Ready)
	require.Len(t, st.Missing, len(memstore.Tables))
	require.Equal(t, "notifications", st.Missing[0])
}

func TestApply_FirstBootPromotesCaller(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.SetSchemaApplied(false)
	logs := testlog.New()
	svc := setup.NewService(store, logs.Logger(), time.Second)

	st, err := svc.Apply(context.Background(), domain.Actor{UserID: firstID, Email: "first@fleet.test", Role: domain.RoleContractor})
	require.NoError(t, err)
	require.True(t, st.Ready)
	require.Empty(t, st.Missing)
	require.Zero(t, store.Calls("CountAdmins"))

	p, ok := store.Profile(firstID)
	require.True(t, ok)
	require.Equal(t, domain.RoleAdmin, p.Role)
	require.Contains(t, logs.Events(), "schema_applied")
}

func TestApply_NonAdminRejectedOnceAnAdminExists(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.AddProfile(domain.Profile{ID: adminID, Role: domain.RoleAdmin})
	svc := setup.NewService(store, testlog.New().Logger(), time.Second)

	_, err := svc.Apply(context.Background(), domain.Actor{UserID: superID, Role: domain.RoleSupervisor})
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.Zero(t, store.Calls("Apply"))

	_, err = svc.Apply(context.Background(), domain.Actor{UserID: adminID, Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Zero(t, store.Calls("PromoteToAdmin"))

	_, err = svc.Apply(context.Background(), domain.Actor{})
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestApply_NoAdminYetPromotes(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.AddProfile(domain.Profile{ID: driverID, Role: domain.RoleDriver})
	svc := setup.NewService(store, testlog.New().Logger(), time.Second)

	_, err := svc.Apply(context.Background(), domain.Actor{UserID: driverID, Role: domain.RoleDriver})
	require.NoError(t, err)
	p, _ := store.Profile(driverID)
	require.Equal(t, domain.RoleAdmin, p.Role)
}

func TestApply_FailureIsLogged(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	boom := errors.New("permission denied for schema public")
	store.FailOn("Apply", boom)
	logs := testlog.New()
	svc := setup.NewService(store, logs.Logger(), time.Second)

	_, err := svc.Apply(context.Background(), domain.Actor{UserID: adminID, Role: domain.RoleAdmin})
	require.ErrorIs(t, err, boom)
	e, ok := logs.Find("schema apply failed")
	require.True(t, ok)
	require.Equal(t, "error", e.Level)
}
