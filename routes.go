package main

import (
	"net/http"

	"boosterClubAPI/handlers"
	"boosterClubAPI/internal/config"
	"boosterClubAPI/middleware"
	"boosterClubAPI/services"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type routerDeps struct {
	cfg            *config.Config
	logger         *zap.SugaredLogger
	paymentService *services.PaymentSettingsService
	db             handlers.Pinger
	verifier       middleware.TokenVerifier
	metrics        http.Handler
}

func newRouter(d routerDeps) http.Handler {
	boosterClubHandler := handlers.NewBoosterClubHandler(d.paymentService, d.logger)
	adminHandler := handlers.NewAdminHandler(d.paymentService, d.logger)
	healthHandler := handlers.NewHealthHandler(d.db, d.logger)

	metricsHandler := d.metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := mux.NewRouter()

	limiter := middleware.NewRateLimiter(d.cfg.HTTP.RateLimitPerSecond, d.cfg.HTTP.RateLimitBurst)
	r.Use(limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(d.cfg.Metrics.User, d.cfg.Metrics.Pass)(metricsHandler))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(d.cfg.HTTP.PprofSecret)(http.DefaultServeMux))

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// Every route sits on r with its full path. In a subrouter a later sibling
	// that shares the prefix clears a method mismatch, so 405 turns into 404.
	r.HandleFunc("/api/booster-clubs", boosterClubHandler.GetBoosterClub).Methods("GET")
	r.HandleFunc("/api/qr-code", boosterClubHandler.GetQRCode).Methods("GET")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES (REQUIRE BEARER TOKEN)
	// -------------------------------------------------------------------------
	adminAuth := middleware.AdminAuthMiddleware(d.verifier, d.cfg.Auth.AdminSubjects, d.logger)
	admin := func(method, path string, h http.HandlerFunc) {
		r.Handle("/api/admin"+path, adminAuth(h)).Methods(method)
	}

	admin("GET", "/payment-status", adminHandler.GetPaymentStatus)
	admin("GET", "/clubs", adminHandler.ListClubs)
	admin("GET", "/clubs/{id}/payment-settings", adminHandler.GetPaymentSettings)
	admin("PUT", "/clubs/{id}/payment-settings", adminHandler.UpdatePaymentSettings)
	admin("GET", "/clubs/{id}/payment-audit", adminHandler.ListPaymentAudit)
	admin("POST", "/payment-links", adminHandler.BuildPaymentLink)
	admin("POST", "/payment-links/decode", adminHandler.DecodePaymentLink)

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	return corsHandler(r)
}

func buildVerifier(cfg config.Auth) middleware.TokenVerifier {
	var chain middleware.ChainVerifier
	if cfg.ClerkSecretKey != "" {
		chain = append(chain, middleware.NewClerkVerifier(cfg.ClerkSecretKey))
	}
	if cfg.AdminJWTSecret != "" {
		chain = append(chain, middleware.NewHMACVerifier(cfg.AdminJWTSecret))
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}
