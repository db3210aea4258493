package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/advisor-engine/internal/audit"
	"github.com/aristath/advisor-engine/internal/config"
	"github.com/aristath/advisor-engine/internal/database"
	"github.com/aristath/advisor-engine/internal/events"
	"github.com/aristath/advisor-engine/internal/metrics"
	"github.com/aristath/advisor-engine/internal/modules/advisor"
	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/aristath/advisor-engine/internal/scheduler"
	"github.com/aristath/advisor-engine/internal/server"
	"github.com/aristath/advisor-engine/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from the start
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "error"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Advisor Engine")

	// Load the policy tables; a broken policy file is fatal at startup
	store, err := policy.NewStore(cfg.PolicyPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load policy configuration")
	}

	eventManager := events.NewManager(log)
	m := metrics.New()

	// Audit persistence is optional
	var auditRepo *audit.Repository
	if cfg.AuditEnabled {
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		auditRepo = audit.NewRepository(db.Conn(), log)
		if err := auditRepo.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run audit migrations")
		}
	}

	// Watch the policy file for edits
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if cfg.PolicyPath != "" {
		reload := policy.NewReloadJob(store, eventManager, m, log)
		if err := sched.AddJob("@every 30s", reload); err != nil {
			log.Fatal().Err(err).Msg("Failed to register policy reload job")
		}
	}

	advisorService := advisor.NewService(advisor.Config{
		Store:     store,
		AuditRepo: auditRepo,
		Events:    eventManager,
		Metrics:   m,
		Log:       log,
	})

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Config:  cfg,
		Advisor: advisor.NewHandlers(advisorService, log),
		Metrics: m,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
