package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/database"
	"github.com/ironcrest/proctor-backend/internal/handler"
	"github.com/ironcrest/proctor-backend/internal/logger"
	"github.com/ironcrest/proctor-backend/internal/repository"
	"github.com/ironcrest/proctor-backend/internal/router"
	"github.com/ironcrest/proctor-backend/internal/service"
	"github.com/ironcrest/proctor-backend/internal/validator"
	"github.com/ironcrest/proctor-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting proctor backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	candidateRepo := repository.NewCandidateRepository(pool)
	assessmentRepo := repository.NewAssessmentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	monitorRepo := repository.NewMonitorRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	adminService := service.NewAdminService(adminRepo)
	monitorService := service.NewMonitorService(monitorRepo, rdb)
	assessmentService := service.NewAssessmentService(assessmentRepo, rdb, cfg.AssessmentCacheTTL, log)
	candidateService := service.NewCandidateService(candidateRepo, assessmentService, cfg.CandidateEmailDomain, cfg.BcryptCost, log)
	sessionService := service.NewSessionService(candidateRepo, assessmentService, monitorService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:            handler.NewAuthHandler(authService, candidateService, adminService),
		CandidatePortal: handler.NewCandidatePortalHandler(sessionService, candidateService),
		AdminCandidate:  handler.NewAdminCandidateHandler(candidateService, authService, monitorService, log),
		AdminAssessment: handler.NewAdminAssessmentHandler(assessmentService),
		Monitor:         handler.NewMonitorHandler(rdb, monitorService, log),
		Proctor:         handler.NewProctorWSHandler(sessionService, log, cfg.AllowedOrigins),
		Health: handler.Health(map[string]func(context.Context) error{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	violationWorker := worker.NewViolationWorker(pool, rdb, log)
	go func() {
		defer close(workerDone)
		violationWorker.Start(workerCtx)
	}()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	if err := assessmentService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop the worker after HTTP so violations queued by in-flight requests
	// still get flushed.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Violation worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
