package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/api"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/config"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/metrics"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/service"
)

func main() {
	// Initialize structured logging with zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("🚀 Starting Hypergraph Analysis Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("address", cfg.Server.Address()).
		Int("max_workers", cfg.Jobs.MaxWorkers).
		Dur("job_timeout", cfg.Jobs.JobTimeout).
		Str("upload_dir", cfg.Storage.UploadDir).
		Msg("Configuration loaded")

	// Initialize services in dependency order
	datasetService := service.NewDatasetService(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes())
	analysisService := service.NewAnalysisService(datasetService, cfg.Jobs)
	comparisonService := service.NewComparisonService(analysisService, cfg.Storage.OutputDir)

	log.Info().Msg("Services initialized")

	registry := metrics.NewRegistry()
	go updateGauges(registry, analysisService, datasetService)

	// Initialize API handlers with all services
	handlers := api.NewHandlers(datasetService, analysisService, comparisonService, cfg.Storage.MaxUploadBytes())

	// Setup router with middleware stack and RESTful routes
	router := mux.NewRouter()
	router.Use(api.LoggingMiddleware)
	router.Use(api.MetricsMiddleware(registry))
	router.Use(api.RecoveryMiddleware)
	api.SetupRoutes(router, handlers)
	router.Handle("/metrics", registry.Handler()).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}).Handler(router)

	// Create HTTP server with proper timeouts
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", cfg.Server.Address()).
			Msg("🌐 HTTP server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("Shutting down server...")

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("✅ Server shutdown complete")
}

// updateGauges refreshes the capacity gauges every ten seconds
func updateGauges(registry *metrics.Registry, analysis *service.AnalysisService, datasets *service.DatasetService) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		registry.SetActiveJobs(analysis.ActiveCount())
		registry.SetLoadedDatasets(datasets.Count())
	}
}
