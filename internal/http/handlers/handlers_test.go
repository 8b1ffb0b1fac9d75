package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"fleet-platform/internal/logx"
	testlog "fleet-platform/internal/testutil"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(logx.Nop(), nil).Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	pinged := false
	db := pingFunc(func(ctx context.Context) error {
		pinged = true
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)
		return nil
	})

	rr := httptest.NewRecorder()
	New(logx.Nop(), db).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Zero(t, rr.Body.Len())
	require.True(t, pinged)
}

func TestHandlers_HealthcheckHead_DatabaseDown(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	db := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	rr := httptest.NewRecorder()
	New(rec.Logger(), db).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, []string{"healthcheck_failed"}, rec.Events())
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(logx.Nop(), nil).NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"error":"Route not found"}`, rr.Body.String())
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(logx.Nop(), nil).MethodNotAllowed(rr, httptest.NewRequest(http.MethodDelete, "/ping", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.JSONEq(t, `{"error":"Method not allowed"}`, rr.Body.String())
}
