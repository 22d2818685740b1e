package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/store"
)

var secret = []byte("middleware-secret")

func protected(t *testing.T) (http.Handler, *auth.Identity) {
	t.Helper()
	svc := auth.NewService(store.NewMemoryStore(), secret, time.Hour)
	var seen auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})
	return RequireAuth(svc)(next), &seen
}

func serve(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_ValidToken(t *testing.T) {
	h, seen := protected(t)
	id := auth.Identity{Username: "alice", Email: "a@example.com"}
	token, err := auth.IssueToken(secret, id, time.Now(), time.Hour)
	require.NoError(t, err)

	rec := serve(h, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, *seen)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	h, _ := protected(t)

	for _, header := range []string{"", "Bearer", "Basic abc"} {
		rec := serve(h, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Contains(t, rec.Body.String(), "Access denied, no token provided")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	h, _ := protected(t)
	id := auth.Identity{Username: "alice"}

	expired, err := auth.IssueToken(secret, id, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	foreign, err := auth.IssueToken([]byte("someone-else"), id, time.Now(), time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"garbage", expired, foreign} {
		rec := serve(h, "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	}
}
