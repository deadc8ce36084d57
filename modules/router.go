// Package modules composes the HTTP API from the feature routers and
// holds the shared request plumbing (auth, error mapping, middleware).
package modules

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lifehubapp/lifehub/core"
)

// Mountable is a feature router ready to be mounted at a path prefix.
type Mountable interface {
	http.Handler
}

// RouterOptions wires the feature routers into the API. Every module is
// optional; nil entries are simply not mounted.
type RouterOptions struct {
	Auth    Authenticator
	Account Mountable
	Habits  Mountable
	Finance Mountable
	Health  Mountable
	Billing Mountable
	Admin   Mountable

	// Healthchecks run on GET /health. Any failure turns the endpoint red.
	Healthchecks map[string]func(context.Context) error

	Logger *slog.Logger
}

// Router builds the top-level chi router: public account routes, the
// authenticated API and the admin surface.
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(opts.Healthchecks))

	if opts.Account != nil {
		r.Mount("/account", opts.Account)
	}

	if opts.Auth != nil {
		r.Group(func(api chi.Router) {
			api.Use(RequireUser(opts.Auth))
			if opts.Habits != nil {
				api.Mount("/habits", opts.Habits)
			}
			if opts.Finance != nil {
				api.Mount("/finance", opts.Finance)
			}
			if opts.Health != nil {
				api.Mount("/wellness", opts.Health)
			}
			if opts.Billing != nil {
				api.Mount("/billing", opts.Billing)
			}
		})
	}

	if opts.Admin != nil {
		r.Mount("/admin", opts.Admin)
	}

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status[name] = err.Error()
				healthy = false
			} else {
				status[name] = "ok"
			}
		}

		if !healthy {
			core.JSONWithMeta(w, http.StatusServiceUnavailable, status, nil)
			return
		}
		core.JSON(w, http.StatusOK, status)
	}
}
