package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/middleware"
	"github.com/hclin/fleetflow/backend/internal/service"
)

// mockVerifier is a test double for middleware.TokenVerifier.
type mockVerifier struct {
	verify func(token string) (service.TokenClaims, error)
}

func (m *mockVerifier) Verify(token string) (service.TokenClaims, error) {
	return m.verify(token)
}

var _ middleware.TokenVerifier = (*mockVerifier)(nil)

func acceptAll(claims service.TokenClaims) *mockVerifier {
	return &mockVerifier{
		verify: func(string) (service.TokenClaims, error) { return claims, nil },
	}
}

func TestAuthenticator_ValidTokenExposesClaims(t *testing.T) {
	claims := service.TokenClaims{UserID: uuid.New(), Name: "Alice", Role: domain.RoleMember}

	var seen service.TokenClaims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := middleware.ClaimsFrom(r.Context())
		require.True(t, ok)
		seen = got
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.NewAuthenticator(acceptAll(claims))(inner)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer token123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, claims, seen)
}

func TestAuthenticator_MissingHeader(t *testing.T) {
	h := middleware.NewAuthenticator(acceptAll(service.TokenClaims{}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticator_MalformedHeader(t *testing.T) {
	h := middleware.NewAuthenticator(acceptAll(service.TokenClaims{}))(okHandler())

	for _, header := range []string{"token123", "Basic abc", "Bearer ", "bearer token123"} {
		req := httptest.NewRequest(http.MethodGet, "/trips", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticator_RejectedToken(t *testing.T) {
	verifier := &mockVerifier{
		verify: func(string) (service.TokenClaims, error) {
			return service.TokenClaims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
		},
	}
	h := middleware.NewAuthenticator(verifier)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	admin := service.TokenClaims{UserID: uuid.New(), Role: domain.RoleAdmin}
	member := service.TokenClaims{UserID: uuid.New(), Role: domain.RoleMember}

	run := func(claims service.TokenClaims) int {
		h := middleware.NewAuthenticator(acceptAll(claims))(middleware.RequireAdmin(okHandler()))
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer token123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(admin))
	assert.Equal(t, http.StatusForbidden, run(member))
}

func TestRequireAdmin_NoClaims(t *testing.T) {
	// RequireAdmin without an authenticator in front must deny, not panic.
	h := middleware.RequireAdmin(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
