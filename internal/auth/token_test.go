package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("test-secret")
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alice      = Identity{Username: "alice", Email: "a@example.com"}
)

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := VerifyToken(testSecret, token, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestIssueToken_UniquePerCall(t *testing.T) {
	a, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)
	b, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyToken_ExpiryBoundary(t *testing.T) {
	token, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token, testNow.Add(time.Hour-time.Second))
	assert.NoError(t, err)

	_, err = VerifyToken(testSecret, token, testNow.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyToken(testSecret, token, testNow.Add(48*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken([]byte("other-secret"), token, testNow)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// mutate replaces the byte at i with one that is still valid base64url.
func mutate(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestVerifyToken_Tampered(t *testing.T) {
	token, err := IssueToken(testSecret, alice, testNow, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	headerEnd := len(parts[0])
	payloadStart := headerEnd + 1
	payloadMid := payloadStart + len(parts[1])/2
	sigStart := payloadStart + len(parts[1]) + 1
	sigMid := sigStart + len(parts[2])/2

	for name, idx := range map[string]int{
		"header":    0,
		"payload":   payloadMid,
		"signature": sigMid,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyToken(testSecret, mutate(token, idx), testNow)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b", "a.b.c", "not a token at all"} {
		_, err := VerifyToken(testSecret, raw, testNow)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestVerifyToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = VerifyToken(testSecret, hs512, testNow)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = VerifyToken(testSecret, none, testNow)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_RequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "alice"}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, token, testNow)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"", "", true},
		{"Bearer", "", true},
		{"Bearer ", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
		{"abc.def.ghi", "", true},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMissingToken, "header %q", tt.header)
			continue
		}
		require.NoError(t, err, "header %q", tt.header)
		assert.Equal(t, tt.want, got)
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	got, ok := IdentityFrom(WithIdentity(context.Background(), alice))
	require.True(t, ok)
	assert.Equal(t, alice, got)
}
