package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storycut/storycut-agent/internal/api"
	"github.com/storycut/storycut-agent/internal/config"
	"github.com/storycut/storycut-agent/internal/db"
	"github.com/storycut/storycut-agent/internal/logging"
	"github.com/storycut/storycut-agent/internal/measure"
	"github.com/storycut/storycut-agent/internal/storyboard"
	"github.com/storycut/storycut-agent/internal/watch"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting storycut agent",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"store", cfg.Store(),
	)

	var store storyboard.Store
	switch cfg.Store() {
	case config.StoreYAML:
		yamlStore, err := storyboard.NewYAMLStore(cfg.ProjectsDir())
		if err != nil {
			return fmt.Errorf("failed to initialize yaml store: %w", err)
		}
		store = yamlStore
	default:
		database, err := db.New(cfg.DBPath(), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()
		store = storyboard.NewSQLiteStore(database.Conn())
	}

	service := storyboard.NewService(store, logging.WithComponent(logger, "storyboard"))
	estimator := measure.NewEstimator(cfg.WordsPerSecond())

	if cfg.WatchEnabled() {
		measurer := measure.NewFileMeasurer(estimator, logging.WithComponent(logger, "measure"))
		watcher, err := watch.New(cfg.AudioDir(), service, measurer, 0, logging.WithComponent(logger, "watch"))
		if err != nil {
			logger.Warn("audio watcher unavailable, durations stay manual", "error", err)
		} else {
			defer watcher.Close()
			logger.Info("watching narration audio", "dir", logging.SanitizePath(cfg.AudioDir()))
		}
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Service:    service,
		Estimator:  estimator,
		DefaultFPS: cfg.FPS(),
		Logger:     logging.WithComponent(logger, "api"),
		StartTime:  startTime,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
