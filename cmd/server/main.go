package main

import (
	"fmt"
	"os"

	"fastbulk/internal/delivery"
	"fastbulk/internal/infrastructure"
	"fastbulk/internal/usecase"
	"fastbulk/pkg/config"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New()

	// Infrastructure
	parser := infrastructure.NewBulkFileParser(log, m)
	analyses := infrastructure.NewAnalysisRepository(log)
	jobs := infrastructure.NewJobRepository(log)

	// Use cases
	engine := usecase.NewSuggestionEngine()
	analysisService := usecase.NewAnalysisService(parser, analyses, log, m)
	suggestionService := usecase.NewSuggestionService(analyses, engine, log, m)
	exportService := usecase.NewExportService(jobs, cfg.Export.OutputDir, log, m)

	// Delivery
	handlers := delivery.NewHTTPHandlers(
		analysisService,
		suggestionService,
		exportService,
		log,
		m,
		cfg.Analysis.UploadDir,
		cfg.Analysis.MaxUploadMB,
		cfg.Export.JobListLimit,
	)
	router := delivery.NewHTTPRouter(handlers, log, m, delivery.RouterOptions{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		RateLimitPerSecond: cfg.HTTP.RateLimitPerSecond,
		RateLimitBurst:     cfg.HTTP.RateLimitBurst,
	})

	srv := router.SetupRoutes()

	log.WithField("port", cfg.Server.Port).Info("Starting server")
	if err := srv.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}
