package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/textlift/textlift/internal/config"
	"github.com/textlift/textlift/internal/recognizer"
	"github.com/textlift/textlift/internal/server"
)

// runServe starts the HTTP upload service and blocks until shutdown.
func runServe(cmd *cobra.Command, cfg *config.Config) error {
	serverConfig := server.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		Auth:               cfg.Server.Auth,
		MaxUploadMB:        cfg.Server.MaxUploadMB,
		TimeoutSec:         cfg.Server.TimeoutSec,
		ShutdownTimeoutSec: cfg.Server.ShutdownTimeout,
	}

	engine := recognizer.NewTesseract(cfg.Recognizer.LanguageList()...)
	ocrServer, err := server.NewServer(serverConfig, engine)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	ocrServer.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(serverConfig.TimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(serverConfig.TimeoutSec) * time.Second,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting upload service", "addr", addr, "auth", ocrServer.AuthEnabled())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	// A startup failure (e.g. the port is taken) must surface as a non-zero
	// exit rather than a clean shutdown.
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	default:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), time.Duration(serverConfig.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down", "timeout_sec", serverConfig.ShutdownTimeoutSec)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("shutdown completed")
	return nil
}
