package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Schnee09/BHEDU-sub006/internal/cache"
	"github.com/Schnee09/BHEDU-sub006/internal/collaborator"
	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/db"
	"github.com/Schnee09/BHEDU-sub006/internal/grading"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/queue"
	"github.com/Schnee09/BHEDU-sub006/internal/report"
	"github.com/Schnee09/BHEDU-sub006/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting recalc worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cards := cache.NewReportCardCache(redisClient.Client(), cfg.Redis.ReportCardTTL)

	// Report-card assembly dependencies
	schoolCore := collaborator.NewClient(cfg)
	policy := grading.FromConfig(cfg.Grading)
	assembler := report.NewAssembler(repo, schoolCore, policy, cfg.Collaborators.SchoolCore.Timeout)

	// Create recalc worker
	recalcWorker := worker.NewRecalcWorker(cfg, assembler, cards, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := recalcWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Recalc worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down recalc worker...")

	// Cancel context to stop worker
	cancel()
	recalcWorker.Stop()

	log.Info().Msg("Recalc worker exited")
}
