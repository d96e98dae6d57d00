// Package main is the entry point for the vacation booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
	"github.com/pkordes/vacation-booking/backend/internal/config"
	"github.com/pkordes/vacation-booking/backend/internal/handler"
	"github.com/pkordes/vacation-booking/backend/internal/images"
	"github.com/pkordes/vacation-booking/backend/internal/middleware"
	"github.com/pkordes/vacation-booking/backend/internal/repo"
	"github.com/pkordes/vacation-booking/backend/internal/service"
	"github.com/pkordes/vacation-booking/backend/migrations"
	"github.com/pkordes/vacation-booking/backend/spec"
)

func main() {
	help := flag.Bool("help-env", false, "print the environment variables the server reads and exit")
	flag.Parse()
	if *help {
		fmt.Println(config.Description())
		return
	}

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := serve(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func serve(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose speaks database/sql; borrow a *sql.DB view of the same pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, sqlDB)
		sqlDB.Close()
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", n)
	}

	// --- Services ---------------------------------------------------------
	vacationRepo := repo.NewVacationRepo(pool)
	tokens := auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL)

	imageStore, err := images.NewStore(cfg.ImageDir)
	if err != nil {
		return err
	}

	// --- Metrics ----------------------------------------------------------
	// A private registry keeps /metrics free of anything we did not register.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	api := handler.NewServer(handler.Deps{
		Vacations:     service.NewVacationService(vacationRepo),
		Followings:    service.NewFollowingService(vacationRepo, repo.NewFollowingRepo(pool)),
		Auth:          service.NewAuthService(repo.NewUserRepo(pool), tokens, cfg.AdminEmails),
		Images:        imageStore,
		Tokens:        tokens,
		SignInLimiter: middleware.NewRateLimiter(cfg.SignInRate, cfg.SignInBurst, logger).Handler,
		Logger:        logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order:
	// RequestID → RememberPeer → RealIP → Logger → Metrics → Recoverer → CORS → MaxBodySize.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP for logging.
	// Those headers are client-controlled, so RememberPeer keeps the socket
	// address for the sign-in rate limiter.
	// Recoverer catches panics and returns HTTP 500 instead of crashing; it sits
	// inside the logger and metrics so recovered panics are still counted.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RememberPeer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var g run.Group
	g.Add(func() error {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		// Give in-flight requests up to 15 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	})
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		logger.Info("received signal", "signal", sig.Signal.String())
		return nil
	}
	return err
}
