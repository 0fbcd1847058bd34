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

	"github.com/sguter90/anomalymaestro/pkg/hosting"
	"github.com/sguter90/anomalymaestro/pkg/tools"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AnomalyMaestro tool server",
	Long: `Start the HTTP server exposing the detection tools under /api/v1/tools.
With --with-image-server the chart hosting server runs in the same process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("with-image-server", false, "also serve hosted charts on IMAGE_SERVER_PORT")
	serveCmd.Flags().String("port", "", "tool server port")
	v.BindPFlag("SERVER_PORT", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	logger := app.Logger

	// Setup Router
	toolServer := tools.NewServer(app.Tools, app.Metrics, app.Config.JWTSecret, logger)
	toolServer.AllowedOrigins = app.Config.AllowedOrigins
	toolServer.Setup()

	servers := []*http.Server{newHTTPServer(":"+app.Config.ServerPort, toolServer)}

	withImages, _ := cmd.Flags().GetBool("with-image-server")
	if withImages {
		imageServer := hosting.NewServer(app.Config.ImagesDir, logger)
		servers = append(servers, newHTTPServer(":"+app.Config.ImageServerPort, imageServer))
	}

	return serveUntilSignal(logger, servers...)
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// serveUntilSignal runs every server until SIGINT/SIGTERM or the first listen error
func serveUntilSignal(logger *zap.Logger, servers ...*http.Server) error {
	errChan := make(chan error, len(servers))
	for _, server := range servers {
		go func(server *http.Server) {
			logger.Info("Starting AnomalyMaestro server", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("failed to start server on %s: %w", server.Addr, err)
			}
		}(server)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", zap.String("addr", server.Addr), zap.Error(err))
		}
	}

	return runErr
}
