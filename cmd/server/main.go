package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/colebaker/ytfetch/internal/api"
	"github.com/colebaker/ytfetch/internal/api/handler"
	"github.com/colebaker/ytfetch/internal/config"
	"github.com/colebaker/ytfetch/internal/fetcher"
	"github.com/colebaker/ytfetch/internal/history"
	"github.com/colebaker/ytfetch/internal/registry"
	"github.com/colebaker/ytfetch/internal/runner"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ytfetch %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ytfetch",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure the download directory exists
	if err := os.MkdirAll(cfg.Storage.BasePath, 0755); err != nil {
		logger.Error("failed to create storage directory", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	reg := registry.New()
	fetch := fetcher.NewYTDLP(cfg.Fetch.ProgressInterval)

	var hist *history.Store
	if cfg.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0755); err != nil {
			logger.Error("failed to create history directory", "error", err)
			os.Exit(1)
		}
		hist, err = history.Open(cfg.History.Path, logger)
		if err != nil {
			logger.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	run := runner.New(reg, fetch, hist, cfg.Storage.BasePath, logger)

	// Initialize handlers
	downloadHandler := handler.NewDownloadHandler(reg, run, logger)
	healthHandler := handler.NewHealthHandler(reg)
	uiHandler := handler.NewUIHandler()

	var historyHandler *handler.HistoryHandler
	if hist != nil {
		historyHandler = handler.NewHistoryHandler(hist, logger)
	}

	// Setup router
	router := api.NewRouter(downloadHandler, healthHandler, uiHandler, historyHandler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting new requests
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Let in-flight jobs finish; they keep reporting to the registry
	// until they reach a terminal state.
	if err := run.Wait(25 * time.Second); err != nil {
		logger.Error("job runner shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
