package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-admin-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func actorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(actor))
	})
}

func TestAdminAuthMiddleware(t *testing.T) {
	expired := validClaims("admin@example.org")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExp := validClaims("admin@example.org")
	noExp.ExpiresAt = nil

	tests := []struct {
		name       string
		header     string
		allowed    []string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			header:     "Bearer " + signToken(t, testSecret, validClaims("admin@example.org")),
			wantStatus: http.StatusOK,
			wantBody:   "admin@example.org",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, "other", validClaims("admin@example.org")),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + signToken(t, testSecret, expired),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no expiry",
			header:     "Bearer " + signToken(t, testSecret, noExp),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no subject",
			header:     "Bearer " + signToken(t, testSecret, validClaims("")),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "subject not on allow list",
			header:     "Bearer " + signToken(t, testSecret, validClaims("parent@example.org")),
			allowed:    []string{"admin@example.org"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "subject on allow list",
			header:     "Bearer " + signToken(t, testSecret, validClaims("admin@example.org")),
			allowed:    []string{" admin@example.org "},
			wantStatus: http.StatusOK,
			wantBody:   "admin@example.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := AdminAuthMiddleware(NewHMACVerifier(testSecret), tt.allowed, zap.NewNop().Sugar())

			req := httptest.NewRequest(http.MethodGet, "/api/admin/payment-status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw(actorEcho()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

type stubVerifier struct {
	subject string
	err     error
}

func (s stubVerifier) Verify(context.Context, string) (string, error) {
	return s.subject, s.err
}

func TestChainVerifier(t *testing.T) {
	chain := ChainVerifier{
		stubVerifier{err: errors.New("not a clerk token")},
		stubVerifier{subject: "admin@example.org"},
	}
	subject, err := chain.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.org", subject)

	_, err = ChainVerifier{stubVerifier{err: errors.New("nope")}}.Verify(context.Background(), "token")
	assert.Error(t, err)

	_, err = ChainVerifier{}.Verify(context.Background(), "token")
	assert.Error(t, err)
}

func TestGetActor(t *testing.T) {
	_, ok := GetActor(context.Background())
	assert.False(t, ok)

	_, ok = GetActor(WithActor(context.Background(), ""))
	assert.False(t, ok)

	actor, ok := GetActor(WithActor(context.Background(), "admin@example.org"))
	assert.True(t, ok)
	assert.Equal(t, "admin@example.org", actor)
}
