package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/auth"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	testlog "fleet-platform/internal/testutil"
)

type fixedLimiter struct {
	d    Decision
	keys []string
}

func (l *fixedLimiter) Take(key string) Decision {
	l.keys = append(l.keys, key)
	return l.d
}

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_AllowedRequestReachesNext(t *testing.T) {
	t.Parallel()

	calls := 0
	h := New(logx.Nop(), nil, &fixedLimiter{d: Decision{Allowed: true, Remaining: 4}}).Handler()(okHandler(&calls))

	r := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, calls)
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_DeniedRequestGets429(t *testing.T) {
	t.Parallel()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "rate_limited_test_total", Help: "denied"})
	rec := testlog.New()
	calls := 0
	lim := &fixedLimiter{d: Decision{Remaining: 0, RetryIn: 2300 * time.Millisecond}}
	h := New(rec.Logger(), counter, lim).Handler()(okHandler(&calls))

	r := httptest.NewRequest(http.MethodPost, "/api/trucks/location", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, 0, calls)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	entry, ok := rec.Find("rate limit exceeded")
	require.True(t, ok)
	key, _ := entry.Field("key")
	assert.Equal(t, "ip:1.2.3.4", key)
}

func TestMiddleware_UnlimitedOmitsRemainingHeader(t *testing.T) {
	t.Parallel()

	calls := 0
	w := httptest.NewRecorder()
	New(logx.Nop(), nil, nil).Handler()(okHandler(&calls)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Equal(t, 1, calls)
	assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_KeysBySessionUserThenIP(t *testing.T) {
	t.Parallel()

	lim := &fixedLimiter{d: Decision{Allowed: true, Remaining: -1}}
	calls := 0
	h := New(logx.Nop(), nil, lim).Handler()(okHandler(&calls))

	anon := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	anon.RemoteAddr = "10.0.0.7:4000"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	authed := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	authed.RemoteAddr = "10.0.0.7:4000"
	authed = authed.WithContext(auth.WithActor(authed.Context(), domain.Actor{UserID: "u-1", Role: domain.RoleDriver}))
	h.ServeHTTP(httptest.NewRecorder(), authed)

	require.Equal(t, []string{"ip:10.0.0.7", "user:u-1"}, lim.keys)
}

func TestClientIP_Fallbacks(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "not-a-hostport"
	assert.Equal(t, "not-a-hostport", clientIP(r))

	r.RemoteAddr = ""
	assert.Equal(t, "unknown", clientIP(r))
}

func TestRetryAfter_RoundsUpToWholeSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1", retryAfter(Decision{}))
	assert.Equal(t, "1", retryAfter(Decision{RetryIn: 200 * time.Millisecond}))
	assert.Equal(t, "2", retryAfter(Decision{RetryIn: 1100 * time.Millisecond}))
}
