package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
	"fleet-platform/internal/service/notification"
	"fleet-platform/internal/testutil/memstore"
)

var admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

func setup(t *testing.T) (*notification.Service, *memstore.Store, *realtime.Hub) {
	t.Helper()
	st := memstore.New()
	hub := realtime.NewHub(nil)
	return notification.NewService(st, hub, logx.Nop(), time.Second), st, hub
}

func TestSend_ToExplicitUsers(t *testing.T) {
	t.Parallel()
	svc, st, hub := setup(t)
	a := st.AddProfile(domain.Profile{Email: "a@fleet.test", Role: domain.RoleDriver})
	b := st.AddProfile(domain.Profile{Email: "b@fleet.test", Role: domain.RoleDriver})

	var delivered []string
	_, err := hub.Subscribe(realtime.TopicUserNotifications, realtime.Filter{Field: "user_id", Value: b.ID},
		func(ev realtime.ChangeEvent) { delivered = append(delivered, ev.Str("title")) })
	require.NoError(t, err)

	sent, err := svc.Send(context.Background(), admin, notification.SendRequest{
		UserIDs: []string{a.ID, b.ID, a.ID, " "},
		Title:   " Depot closed ",
		Message: "Use gate B",
	})
	require.NoError(t, err)
	require.Len(t, sent, 2)
	require.Equal(t, domain.NotificationInfo, sent[0].Type)
	require.Equal(t, "Depot closed", sent[0].Title)

	require.Len(t, st.Notifications(a.ID), 1)
	require.Len(t, st.Notifications(b.ID), 1)
	require.Equal(t, []string{"Depot closed"}, delivered)
}

func TestSend_ToRoleAudience(t *testing.T) {
	t.Parallel()
	svc, st, _ := setup(t)
	st.AddProfile(domain.Profile{Email: "d1@fleet.test", Role: domain.RoleDriver})
	st.AddProfile(domain.Profile{Email: "d2@fleet.test", Role: domain.RoleDriver})
	st.AddProfile(domain.Profile{Email: "d3@fleet.test", Role: domain.RoleDriver, Status: domain.ProfileSuspended})
	st.AddProfile(domain.Profile{Email: "s@fleet.test", Role: domain.RoleSupervisor})

	sent, err := svc.Send(context.Background(), admin, notification.SendRequest{
		Role: domain.RoleDriver, Title: "Safety", Message: "Wear vests", Type: domain.NotificationWarning,
	})
	require.NoError(t, err)
	require.Len(t, sent, 2)
	require.Equal(t, 2, st.NotificationCount())
}

func TestSend_UnknownRecipientRollsBack(t *testing.T) {
	t.Parallel()
	svc, st, _ := setup(t)
	a := st.AddProfile(domain.Profile{Email: "a@fleet.test", Role: domain.RoleDriver})

	_, err := svc.Send(context.Background(), admin, notification.SendRequest{
		UserIDs: []string{a.ID, "ghost"}, Title: "t", Message: "m",
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, "Recipient not found", apperr.Reason(err, ""))
	require.Zero(t, st.NotificationCount())
}

func TestSend_Rejections(t *testing.T) {
	t.Parallel()
	svc, st, _ := setup(t)

	_, err := svc.Send(context.Background(), domain.Actor{UserID: "d", Role: domain.RoleDriver},
		notification.SendRequest{UserIDs: []string{"x"}, Title: "t", Message: "m"})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	bad := []notification.SendRequest{
		{UserIDs: []string{"x"}, Message: "m"},
		{UserIDs: []string{"x"}, Title: "t"},
		{Title: "t", Message: "m"},
		{UserIDs: []string{"x"}, Role: domain.RoleDriver, Title: "t", Message: "m"},
		{Role: "pilot", Title: "t", Message: "m"},
		{UserIDs: []string{"x"}, Title: "t", Message: "m", Type: "urgent"},
	}
	for _, req := range bad {
		_, err := svc.Send(context.Background(), admin, req)
		require.ErrorIs(t, err, apperr.ErrInvalid)
	}
	require.Zero(t, st.TotalCalls())
}

func TestListAndMarkRead(t *testing.T) {
	t.Parallel()
	svc, st, _ := setup(t)
	me := st.AddProfile(domain.Profile{Email: "me@fleet.test", Role: domain.RoleDriver})
	other := st.AddProfile(domain.Profile{Email: "other@fleet.test", Role: domain.RoleDriver})
	actor := domain.Actor{UserID: me.ID, Role: domain.RoleDriver}

	_, err := svc.Send(context.Background(), admin, notification.SendRequest{UserIDs: []string{me.ID}, Title: "one", Message: "m"})
	require.NoError(t, err)
	sent, err := svc.Send(context.Background(), admin, notification.SendRequest{UserIDs: []string{me.ID, other.ID}, Title: "two", Message: "m"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), actor, false, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "two", all[0].Title)

	require.NoError(t, svc.MarkRead(context.Background(), actor, all[0].ID))
	require.NoError(t, svc.MarkRead(context.Background(), actor, all[0].ID))

	unread, err := svc.List(context.Background(), actor, true, nil)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "one", unread[0].Title)

	var othersID string
	for _, n := range sent {
		if n.UserID == other.ID {
			othersID = n.ID
		}
	}
	err = svc.MarkRead(context.Background(), actor, othersID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	zero := 0
	_, err = svc.List(context.Background(), actor, false, &zero)
	require.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = svc.List(context.Background(), domain.Actor{}, false, nil)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestList_StoreErrorPropagates(t *testing.T) {
	t.Parallel()
	svc, st, _ := setup(t)
	boom := errors.New("connection reset")
	st.FailOn("ListNotifications", boom)

	_, err := svc.List(context.Background(), admin, false, nil)
	require.ErrorIs(t, err, boom)
}
