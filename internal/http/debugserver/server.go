// Package debugserver serves profiling and realtime diagnostics on a side port.
package debugserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Subscriptions reports the number of open realtime subscriptions.
type Subscriptions interface {
	Len() int
}

// Config stores debug server settings. Remote callers need User and Pass;
// loopback callers are always admitted.
type Config struct {
	User     string
	Pass     string
	Realtime Subscriptions
}

// Handler returns the debug routes: /debug/pprof/*, /debug/vars and /debug/realtime.
func Handler(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(localOrBasicAuth(cfg.User, cfg.Pass))

	r.Get("/debug/realtime", func(w http.ResponseWriter, _ *http.Request) {
		n := 0
		if cfg.Realtime != nil {
			n = cfg.Realtime.Len()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"subscriptions": n})
	})
	r.Mount("/debug", middleware.Profiler())
	return r
}

func localOrBasicAuth(user, pass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		remote := next
		if user != "" && pass != "" {
			remote = middleware.BasicAuth("debug", map[string]string{user: pass})(next)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case isLoopback(r.RemoteAddr):
				next.ServeHTTP(w, r)
			case user == "" || pass == "":
				w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				remote.ServeHTTP(w, r)
			}
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
