package middleware

import (
	"net/http"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/httpx"
	"github.com/ayush/flight-tracker/internal/logging"
)

// Authenticator resolves an Authorization header to an identity.
type Authenticator interface {
	Authenticate(header string) (auth.Identity, error)
}

// RequireAuth is middleware that validates the bearer token and injects the
// caller's identity into the request context. A missing or malformed header
// is rejected with 401, a bad or expired token with 403.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				logging.Debug().
					Str("code", string(apperr.CodeOf(err))).
					Str("path", r.URL.Path).
					Msg("request rejected by auth")
				httpx.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
