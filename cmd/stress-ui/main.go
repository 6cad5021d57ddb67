// Command stress-ui serves the slider page in front of stressd.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kiiichu/stress-estimator/internal/frontend"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/config"
	"github.com/Kiiichu/stress-estimator/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("stress-ui failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadUI()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "stress-ui",
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting stress-ui", "port", cfg.UIPort, "api_url", cfg.APIURL)

	api := frontend.NewAPIClient(cfg.APIURL, cfg.APITimeout, logger)

	mux := http.NewServeMux()
	frontend.NewHandler(api, logger).RegisterRoutes(mux)

	// Build middleware chain (applied in reverse order).
	var h http.Handler = mux
	h = frontend.LoggingMiddleware(logger)(h)
	h = frontend.RateLimitMiddleware(frontend.NewRateLimiter(cfg.RateLimit))(h)

	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("stress-ui stopped")
	return runErr
}
