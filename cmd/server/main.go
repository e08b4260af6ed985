package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/posturelab/postura/internal/analyzer"
	"github.com/posturelab/postura/internal/config"
	"github.com/posturelab/postura/internal/handler"
	"github.com/posturelab/postura/internal/janitor"
	"github.com/posturelab/postura/internal/media"
	"github.com/posturelab/postura/internal/registry"
	"github.com/posturelab/postura/internal/service"
	"github.com/posturelab/postura/internal/upload"
	"github.com/posturelab/postura/internal/webhook"
	"github.com/posturelab/postura/internal/worker"
	"github.com/posturelab/postura/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Posture Analysis Service", "version", version)

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create working directories", "error", err)
		os.Exit(1)
	}
	slog.Info("Working directories ready",
		"temp_dir", cfg.TempDir,
		"upload_dir", cfg.UploadDir,
	)

	// Core components
	reg := registry.New()
	acquirer := media.NewAcquirer(cfg.TempDir, cfg.UploadDir, cfg.DownloadTimeout)
	an := analyzer.NewCommandAnalyzer(cfg.AnalyzerCommand, cfg.AnalyzerTimeout)
	slog.Info("Analyzer configured",
		"command", cfg.AnalyzerCommand,
		"available", an.Available(),
	)

	notifier := webhook.NewNotifier(cfg.CallbackTimeout, webhook.RetryConfig{
		MaxAttempts:    cfg.CallbackMaxAttempts,
		InitialDelayMs: cfg.CallbackInitialDelayMs,
		MaxDelayMs:     cfg.CallbackMaxDelayMs,
		Multiplier:     cfg.CallbackMultiplier,
	})

	// Orchestration
	orchestrator := service.NewOrchestrator(reg, acquirer, an, notifier)
	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.JobQueueSize)
	pool.Start()
	dispatcher := service.NewDispatcher(reg, pool, orchestrator)

	// Uploads
	uploadStore := upload.NewStore(cfg.UploadDir)

	// Temp janitor
	var tempJanitor *janitor.Janitor
	if cfg.JanitorEnabled {
		var err error
		tempJanitor, err = janitor.New(cfg.TempDir, cfg.JanitorSchedule, cfg.TempMaxAge)
		if err != nil {
			slog.Error("Invalid janitor schedule", "schedule", cfg.JanitorSchedule, "error", err)
			os.Exit(1)
		}
		tempJanitor.Start()
	} else {
		slog.Info("Temp janitor is disabled by configuration")
	}

	// Handlers
	analysisHandler := handler.NewAnalysisHandler(dispatcher, acquirer, an)
	jobHandler := handler.NewJobHandler(reg)
	uploadHandler := handler.NewUploadHandler(uploadStore)
	healthHandler := handler.NewHealthHandler(an, reg, cfg.TempDir, cfg.UploadDir, version)

	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	router := handler.NewRouter(
		analysisHandler,
		jobHandler,
		uploadHandler,
		healthHandler,
		corsConfig,
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new jobs arrive, then drain
	// the pool so in-flight analyses reach a terminal state.
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Draining worker pool...")
	pool.Stop()

	if tempJanitor != nil {
		tempJanitor.Stop()
	}

	slog.Info("Posture Analysis Service stopped")
}
