package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frbox-labs/frbox/internal/api"
	"github.com/frbox-labs/frbox/internal/config"
	"github.com/frbox-labs/frbox/internal/face"
	"github.com/frbox-labs/frbox/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting FRbox API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.Int("embedding_dim", cfg.EmbeddingDim),
		slog.Float64("similarity_threshold", cfg.SimilarityThreshold),
		slog.Int("max_image_width", cfg.MaxImageWidth),
		slog.Int("max_faces", cfg.MaxFaces),
		slog.String("face_provider", cfg.FaceProvider),
		slog.Bool("auth_enabled", len(cfg.APIKeys) > 0),
	)

	// Face detection/embedding capability
	faceProvider, err := face.NewFaceProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	// Setup router
	router := api.NewRouter(cfg, logger, &api.Dependencies{
		FaceService: service.NewFaceService(faceProvider, cfg, logger),
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
