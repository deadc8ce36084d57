package modules

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/lifehubapp/lifehub/core"
	"github.com/lifehubapp/lifehub/svc/user"
)

type contextKey struct{ name string }

var userContextKey = contextKey{"user"}

// Authenticator verifies credentials. Satisfied by the user service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

// RequireUser authenticates every request with HTTP Basic credentials and
// stores the resolved user in the request context.
func RequireUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="lifehub"`)
				core.JSONError(w, core.ErrUnauthorized)
				return
			}

			u, err := auth.Authenticate(r.Context(), email, password)
			if err != nil {
				core.JSONError(w, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), userContextKey, u)))
		})
	}
}

// UserFrom returns the authenticated user stored by RequireUser. Panics if
// the middleware did not run; handlers must only be mounted behind it.
func UserFrom(ctx context.Context) *user.User {
	u, ok := ctx.Value(userContextKey).(*user.User)
	if !ok {
		panic("modules: no authenticated user in context")
	}
	return u
}

// RequireAdminToken guards admin routes with a shared secret carried in
// the X-Admin-Token header.
func RequireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				core.JSONError(w, core.ErrForbidden)
				return
			}
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				core.JSONError(w, core.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
