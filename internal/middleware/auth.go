package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/service"
)

// TokenVerifier validates a bearer token and returns its claims.
// service.AuthService implements it.
type TokenVerifier interface {
	Verify(token string) (service.TokenClaims, error)
}

// claimsKey is the context key under which authenticated claims are stored.
type claimsKey struct{}

// NewAuthenticator returns a middleware that requires a valid
// "Authorization: Bearer <token>" header. On success the token's claims are
// stored in the request context, retrievable via ClaimsFrom. Missing,
// malformed, or invalid tokens get 401.
func NewAuthenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 unless the authenticated user holds the admin
// role. Wire it after NewAuthenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || claims.Role != domain.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFrom returns the authenticated claims stored by NewAuthenticator.
func ClaimsFrom(ctx context.Context) (service.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(service.TokenClaims)
	return claims, ok
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// writeAuthError writes a minimal JSON error body matching the API's error
// envelope. The body is assembled by hand to keep this package free of a
// dependency on the handler package.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	code := "unauthorized"
	if status == http.StatusForbidden {
		code = "forbidden"
	}
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
