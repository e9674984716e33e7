package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"boosterClubAPI/internal/club"
	"boosterClubAPI/internal/config"
	"boosterClubAPI/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(_ context.Context, token string) (string, error) {
	if subject, ok := v[token]; ok {
		return subject, nil
	}
	return "", errors.New("unknown token")
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testRouter(t *testing.T) (http.Handler, *club.Club) {
	t.Helper()
	c := &club.Club{ID: uuid.New(), Name: "Band Boosters", IsActive: true}

	store := &services.FakeClubStore{
		GetActiveClubFn: func(_ context.Context, id uuid.UUID) (*club.Club, error) {
			if id != c.ID {
				return nil, services.ErrNotFound
			}
			cp := *c
			return &cp, nil
		},
		ListActiveClubsFn: func(context.Context) ([]*club.Club, error) {
			cp := *c
			return []*club.Club{&cp}, nil
		},
	}

	cfg := config.Defaults()
	cfg.Metrics = config.Metrics{User: "prom", Pass: "secret"}
	cfg.Auth.AdminSubjects = []string{"treasurer@example.org"}

	log := zap.NewNop().Sugar()
	h := newRouter(routerDeps{
		cfg:            &cfg,
		logger:         log,
		paymentService: services.NewPaymentSettingsService(store, nil, log),
		db:             okPinger{},
		verifier: staticVerifier{
			"treasurer-token": "treasurer@example.org",
			"parent-token":    "parent@example.org",
		},
		metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("# metrics"))
		}),
	})
	return h, c
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, c := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/qr-code?clubId="+c.ID.String(), nil)
	req.Header.Set("Origin", "https://boosters.example.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestRouter_PreflightForAdminPut(t *testing.T) {
	h, c := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/clubs/"+c.ID.String()+"/payment-settings", nil)
	req.Header.Set("Origin", "https://admin.boosters.example.org")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code, "preflight must not require a token")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_PlainOptions(t *testing.T) {
	h, _ := testRouter(t)

	rec := serve(h, httptest.NewRequest(http.MethodOptions, "/api/booster-clubs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, c := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/booster-clubs?id="+c.ID.String(), nil)
	req.Header.Set("Origin", "https://boosters.example.org")
	rec := serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/qr-code?clubId="+c.ID.String(), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "club has payment disabled")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodDelete, "/api/booster-clubs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h, c := testRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/booster-clubs"},
		{http.MethodPost, "/api/qr-code"},
		{http.MethodDelete, "/api/admin/clubs/" + c.ID.String() + "/payment-settings"},
		{http.MethodPost, "/api/admin/clubs/" + c.ID.String() + "/payment-audit"},
		{http.MethodGet, "/api/admin/payment-links"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/admin/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AdminAuth(t *testing.T) {
	h, _ := testRouter(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"unknown token", "forged", http.StatusUnauthorized},
		{"not an admin", "parent-token", http.StatusForbidden},
		{"admin", "treasurer-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/payment-status", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_AdminClubRoutes(t *testing.T) {
	h, c := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/clubs/"+c.ID.String()+"/payment-settings", nil)
	req.Header.Set("Authorization", "Bearer treasurer-token")
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), c.ID.String())

	req = httptest.NewRequest(http.MethodGet, "/api/admin/clubs/"+uuid.NewString()+"/payment-settings", nil)
	req.Header.Set("Authorization", "Bearer treasurer-token")
	rec = serve(h, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/clubs", nil)
	req.Header.Set("Authorization", "Bearer treasurer-token")
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := testRouter(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prom", "secret")
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestBuildVerifier(t *testing.T) {
	v := buildVerifier(config.Auth{AdminJWTSecret: "0123456789abcdef0123456789abcdef"})
	_, err := v.Verify(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
