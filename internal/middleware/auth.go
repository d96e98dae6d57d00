package middleware

import (
	"net/http"
	"strings"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate returns a middleware that requires a valid
// "Authorization: Bearer <token>" header. The parsed claims are stored in the
// request context for auth.ClaimsFromContext. Missing or invalid tokens get 401.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects requests whose claims do not carry the admin role with 403.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !claims.IsAdmin() {
			writeError(w, r, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
