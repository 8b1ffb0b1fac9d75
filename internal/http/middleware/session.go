package middleware

import (
	"context"
	"net/http"
	"strings"

	"fleet-platform/internal/auth"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
)

// DefaultSessionCookie is the cookie holding the access token.
const DefaultSessionCookie = "sb-access-token"

type profileLoader interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
}

type tokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Session resolves the caller from the access token and its profile row.
type Session struct {
	verifier tokenVerifier
	profiles profileLoader
	cookie   string
	logger   logx.Logger
}

// NewSession creates a Session. An empty cookie name means DefaultSessionCookie.
func NewSession(verifier tokenVerifier, profiles profileLoader, cookie string, logger logx.Logger) *Session {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	return &Session{verifier: verifier, profiles: profiles, cookie: cookie, logger: logger}
}

func (s *Session) token(r *http.Request) string {
	if c, err := r.Cookie(s.cookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Identify attaches the actor of a valid token whose profile exists and is active. Requests
// without a usable session pass through anonymous; handlers decide whether that is allowed.
func (s *Session) Identify(next http.Handler) http.Handler {
	return s.identify(next, false)
}

// IdentifyToken is Identify for first-boot endpoints: when the profile cannot be loaded (the
// schema may not exist yet) the actor is built from the token claims without a role.
func (s *Session) IdentifyToken(next http.Handler) http.Handler {
	return s.identify(next, true)
}

func (s *Session) identify(next http.Handler, claimsFallback bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := s.token(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.verifier.Verify(raw)
		if err != nil {
			s.logger.Debug("session token rejected", logx.String("event", "session_rejected"), logx.Err(err))
			next.ServeHTTP(w, r)
			return
		}

		p, err := s.profiles.GetProfile(r.Context(), claims.Subject)
		switch {
		case err == nil && p != nil && p.Status == domain.ProfileActive:
			r = r.WithContext(auth.WithActor(r.Context(), domain.Actor{UserID: p.ID, Email: p.Email, Role: p.Role}))
		case err == nil && p != nil:
			s.logger.Info("inactive profile rejected",
				logx.String("event", "session_inactive"),
				logx.String("user_id", p.ID),
				logx.String("status", string(p.Status)),
			)
		case claimsFallback:
			r = r.WithContext(auth.WithActor(r.Context(), domain.Actor{UserID: claims.Subject, Email: claims.Email}))
		case err != nil:
			s.logger.Warn("profile lookup failed",
				logx.String("event", "session_profile_failed"),
				logx.String("user_id", claims.Subject),
				logx.Err(err),
			)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor answers 401 for anonymous requests.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.ActorFrom(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
