// @title Video Dupes API
// @version 1.0
// @description API for scanning directories for duplicate videos and retrieving the reports.
// @host localhost:8080
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videodupes/internal/app"
	"videodupes/internal/config"
	"videodupes/internal/daemon"
	_ "videodupes/internal/docs"
	"videodupes/internal/extract"
	"videodupes/internal/logging"
	"videodupes/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	tool := extract.NewTool(cfg.ExtractConfig(), logger)
	if err := tool.Available(); err != nil {
		logger.Fatal("ffmpeg tools not available", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var uploader app.Uploader
	if sc := cfg.StorageConfig(); sc.Enabled() {
		store, err := storage.NewStorage(sc)
		if err != nil {
			logger.Fatal("failed to create report storage", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Fatal("failed to prepare report bucket", zap.Error(err))
		}
		uploader = store
	}

	server := daemon.NewServer(cfg, tool, uploader, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.ListenAddr), zap.String("version", daemon.Version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("scans did not stop in time", zap.Error(err))
	}
}
