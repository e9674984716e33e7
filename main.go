package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boosterClubAPI/internal/config"
	"boosterClubAPI/internal/database"
	"boosterClubAPI/internal/logger"
	"boosterClubAPI/internal/qr"
	"boosterClubAPI/middleware"
	"boosterClubAPI/services"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to load configuration", "err", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to build logger", "err", err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped with error", "err", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing database connection pool...")
		dbPool.Close()
	}()
	log.Infow("connected to database", "max_conns", cfg.Database.MaxConns)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			return err
		}
		log.Info("database schema applied")
	}

	store := services.NewPostgresClubStore(database.SQLX(dbPool))
	renderer := qr.NewRenderer(cfg.QR)
	paymentService := services.NewPaymentSettingsService(store, renderer, log)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)

	handler := newRouter(routerDeps{
		cfg:            cfg,
		logger:         log,
		paymentService: paymentService,
		db:             dbPool,
		verifier:       buildVerifier(cfg.Auth),
	})

	server := http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sigChan:
		log.Infow("got signal", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown error", "err", err)
	}

	log.Info("Server shutdown complete")
	return nil
}
