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

	"golang.org/x/sync/errgroup"

	"github.com/meetscribe/meetscribe/internal/artifact"
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/ingest"
	"github.com/meetscribe/meetscribe/internal/live"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/server"
	"github.com/meetscribe/meetscribe/internal/store"
	"github.com/meetscribe/meetscribe/internal/summarizer"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/internal/watcher"
	"github.com/meetscribe/meetscribe/pkg/executor"
)

func main() {
	ctx := context.Background()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "MeetScribe - Meeting Transcription Service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Summarizer backend: %s", cfg.Summarizer.Backend)
	log.Info(ctx, "Max concurrent runs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Open the task record store
	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		log.Error(ctx, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	// Initialize dependencies
	exec := executor.New()
	tr := transcriber.New(cfg.Whisper, exec, log)
	sum, err := summarizer.New(cfg.Summarizer, cfg.Ollama, cfg.Gemini, log)
	if err != nil {
		log.Error(ctx, "Failed to create summarizer: %v", err)
		os.Exit(1)
	}
	artifacts := artifact.New(cfg.Paths.Transcripts, cfg.Paths.Summaries)
	runner := pipeline.New(st, artifacts, tr, sum, log, cfg.Performance.MaxConcurrent)

	coord := live.New(st, runner, log, cfg.Paths.Uploads)
	srv := server.New(st, runner, coord, log, cfg.Paths.Uploads)

	ing := ingest.New(st, runner, log, cfg.Paths.Uploads)
	w, err := watcher.New(cfg.Paths.Inbox, ing.Handle, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "========================================")
	log.Info(ctx, "MeetScribe is ready!")
	log.Info(ctx, "Listening on: %s", cfg.Server.Addr)
	log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Uploads: %s", cfg.Paths.Uploads)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or component failure
	errChan := make(chan error, 1)
	go func() { errChan <- g.Wait() }()

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			log.Error(ctx, "Component error: %v", err)
		}
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP server shutdown: %v", err)
	}

	log.Info(ctx, "Waiting for in-flight pipeline runs to complete...")
	runner.Wait()

	log.Info(ctx, "MeetScribe stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Inbox,
		cfg.Paths.Transcripts,
		cfg.Paths.Summaries,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
