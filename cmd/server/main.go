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

	"github.com/sguter90/anomalymaestro/pkg/config"
	"github.com/sguter90/anomalymaestro/pkg/hosting"
	"github.com/sguter90/anomalymaestro/pkg/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Chart hosting server: stores uploaded charts in IMAGES_DIR and serves them
// under /graficos/{filename}.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	v := viper.New()
	config.SetDefaults(v)

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}

	imageServer := hosting.NewServer(cfg.ImagesDir, logger)

	addr := ":" + cfg.ImageServerPort
	server := &http.Server{
		Handler:      imageServer,
		Addr:         addr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("✓ Chart server ready",
		zap.String("addr", addr),
		zap.String("dir", cfg.ImagesDir),
		zap.String("url", hosting.ImageURL(cfg.ImageHostURL, "<filename>")),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
