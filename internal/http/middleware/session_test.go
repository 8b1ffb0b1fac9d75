package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fleet-platform/internal/auth"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
)

type stubProfiles struct {
	getFn func(ctx context.Context, id string) (*domain.Profile, error)
}

func (s stubProfiles) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return s.getFn(ctx, id)
}

func profiles(list ...domain.Profile) stubProfiles {
	return stubProfiles{getFn: func(_ context.Context, id string) (*domain.Profile, error) {
		for _, p := range list {
			if p.ID == id {
				return &p, nil
			}
		}
		return nil, nil
	}}
}

func captureActor(got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = auth.ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSession_Identify(t *testing.T) {
	t.Parallel()

	v := auth.NewVerifier("secret")
	token, err := v.Issue("u-1", "d@fleet.test", domain.RoleDriver, time.Hour)
	require.NoError(t, err)
	suspendedToken, err := v.Issue("u-2", "", domain.RoleDriver, time.Hour)
	require.NoError(t, err)

	s := NewSession(v, profiles(
		domain.Profile{ID: "u-1", Email: "d@fleet.test", Role: domain.RoleSupervisor, Status: domain.ProfileActive},
		domain.Profile{ID: "u-2", Role: domain.RoleDriver, Status: domain.ProfileSuspended},
	), "", logx.Nop())

	cases := []struct {
		name  string
		setup func(r *http.Request)
		want  domain.Actor
	}{
		{
			name:  "cookie",
			setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: token}) },
			// the role comes from the profile row, not the token
			want: domain.Actor{UserID: "u-1", Email: "d@fleet.test", Role: domain.RoleSupervisor},
		},
		{
			name:  "bearer",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			want:  domain.Actor{UserID: "u-1", Email: "d@fleet.test", Role: domain.RoleSupervisor},
		},
		{name: "anonymous", setup: func(*http.Request) {}},
		{name: "garbage", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }},
		{name: "suspended", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+suspendedToken) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got domain.Actor
			r := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
			tc.setup(r)
			s.Identify(captureActor(&got)).ServeHTTP(httptest.NewRecorder(), r)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSession_IdentifyTokenFallsBackToClaims(t *testing.T) {
	t.Parallel()

	v := auth.NewVerifier("secret")
	token, err := v.Issue("u-9", "first@fleet.test", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	missingTable := stubProfiles{getFn: func(context.Context, string) (*domain.Profile, error) {
		return nil, errors.New(`relation "profiles" does not exist`)
	}}
	s := NewSession(v, missingTable, "", logx.Nop())

	var got domain.Actor
	r := httptest.NewRequest(http.MethodPost, "/api/setup", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	s.IdentifyToken(captureActor(&got)).ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, domain.Actor{UserID: "u-9", Email: "first@fleet.test"}, got)

	got = domain.Actor{}
	s.Identify(captureActor(&got)).ServeHTTP(httptest.NewRecorder(), r)
	require.True(t, got.IsZero())
}

func TestRequireActor(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	RequireActor(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	r = r.WithContext(auth.WithActor(r.Context(), domain.Actor{UserID: "u"}))
	rec = httptest.NewRecorder()
	RequireActor(next).ServeHTTP(rec, r)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
