package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Schnee09/BHEDU-sub006/internal/api"
	"github.com/Schnee09/BHEDU-sub006/internal/cache"
	"github.com/Schnee09/BHEDU-sub006/internal/collaborator"
	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/db"
	"github.com/Schnee09/BHEDU-sub006/internal/grading"
	"github.com/Schnee09/BHEDU-sub006/internal/ingest"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/queue"
	"github.com/Schnee09/BHEDU-sub006/internal/report"
	"github.com/Schnee09/BHEDU-sub006/internal/storage"

	"github.com/gin-gonic/gin"
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

	log.Info().Str("version", cfg.App.Version).Msg("Starting API server")

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

	producer := queue.NewProducer(redisClient, cfg)
	cards := cache.NewReportCardCache(redisClient.Client(), cfg.Redis.ReportCardTTL)

	// School-core collaborator
	schoolCore := collaborator.NewClient(cfg)

	// Grading policy
	policy := grading.FromConfig(cfg.Grading)

	// Core services
	ingestor := ingest.NewIngestor(repo, schoolCore, cfg.Workers.Ingestion.Parallelism)
	assembler := report.NewAssembler(repo, schoolCore, policy, cfg.Collaborators.SchoolCore.Timeout)

	// Report-card archive is optional; the endpoint reports 503 without it
	var archiver *report.Archiver
	if cfg.ArchiveEnabled() {
		store, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		archiver = report.NewArchiver(store)
	} else {
		log.Warn().Msg("S3 bucket not configured, report-card archiving disabled")
	}

	// Initialize API handler
	handler := api.NewHandler(repo, ingestor, assembler, archiver, producer, cards, schoolCore, schoolCore, policy, cfg)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	// Setup routes
	api.SetupRoutes(router, handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
