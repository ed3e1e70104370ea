package middleware

import (
	"net/http"
	"strings"

	"atlas/internal/auth"
	"atlas/internal/httputil"
)

// Auth validates the Authorization bearer token on every request when a
// verifier is configured. A nil verifier disables auth entirely, which
// matches deployments where the server sits behind a trusted proxy and
// only the external-service credentials matter.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil || r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			subject, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithSubject(r, subject))
		})
	}
}
