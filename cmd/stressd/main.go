// Command stressd serves stress predictions over HTTP and gRPC.
package main

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

	"github.com/gin-gonic/gin"

	"github.com/Kiiichu/stress-estimator/internal/application/usecase"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/domain/service"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/config"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/messaging"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/oracle"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/telemetry"
	grpcpresentation "github.com/Kiiichu/stress-estimator/internal/presentation/grpc"
	"github.com/Kiiichu/stress-estimator/internal/presentation/rest"
	"github.com/Kiiichu/stress-estimator/pkg/kafka"
	"github.com/Kiiichu/stress-estimator/pkg/observability"
	"github.com/Kiiichu/stress-estimator/pkg/tlsutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("stressd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "stressd",
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rules, err := ruleset.Lookup(cfg.RuleSet)
	if err != nil {
		return err
	}

	logger.Info("starting stressd",
		"version", version,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"rule_set", rules.Revision,
	)

	// Initialize tracing. A collector that cannot be reached is not fatal.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    "stressd",
		ServiceVersion: version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		SampleRatio:    cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "stressd"})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	recorder, err := telemetry.NewRecorder(meterProvider)
	if err != nil {
		return fmt.Errorf("init metric instruments: %w", err)
	}

	// The model is loaded once and must match the configured rule set.
	artifact, err := oracle.Open(cfg.ModelPath, rules.Revision)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	logger.Info("model loaded",
		"path", cfg.ModelPath,
		"kind", artifact.Kind(),
		"revision", artifact.Revision(),
	)

	// Wire infrastructure adapters.
	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}

	// Wire domain services and use cases.
	predictor := service.NewPredictor(artifact.Oracle(), rules)
	predictUC := usecase.NewPredictStress(predictor, publisher, recorder, logger)
	describeUC := usecase.NewDescribeRuleSet(rules)

	// gRPC server.
	certFile, keyFile, err := grpcTLSFiles(cfg, logger)
	if err != nil {
		return err
	}
	grpcServer, err := grpcpresentation.NewServer(
		grpcpresentation.NewStressHandler(predictUC, describeUC, recorder, logger),
		grpcpresentation.ServerConfig{
			TLSCertFile: certFile,
			TLSKeyFile:  keyFile,
			Reflection:  cfg.GRPCReflection,
		},
		logger,
	)
	if err != nil {
		return err
	}

	// HTTP server.
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(
		rest.NewPredictionHandler(predictUC, describeUC, recorder, logger),
		rest.NewHealthHandler(rest.Readiness{
			ModelKind:      artifact.Kind(),
			Revision:       artifact.Revision(),
			FeatureColumns: artifact.FeatureColumns(),
		}),
		rest.RouterConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			MetricsHandler: metricsHandler,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down stressd")

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := closePublisher(shutdownCtx); err != nil {
		logger.Error("event publisher close error", "error", err)
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}

	logger.Info("stressd stopped")
	return runErr
}

// newPublisher returns the Kafka publisher when brokers are configured and
// a log-only publisher otherwise. Kafka delivery runs on a background queue so
// a slow broker never holds up a prediction.
func newPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func(context.Context) error, error) {
	if !cfg.KafkaEnabled() {
		logger.Info("kafka not configured, prediction events are logged only")
		return messaging.NewLogPublisher(logger), func(context.Context) error { return nil }, nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka())
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("publishing prediction events to kafka",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaTopic,
		"queue_size", cfg.EventQueueSize,
	)

	async := messaging.NewAsyncPublisher(
		messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger),
		messaging.AsyncConfig{
			QueueSize:      cfg.EventQueueSize,
			PublishTimeout: cfg.EventPublishTimeout,
		},
		logger,
	)
	closeFn := func(ctx context.Context) error {
		// Drain queued events before the writers go away.
		drainErr := async.Close(ctx)
		return errors.Join(drainErr, producer.Close())
	}
	return async, closeFn, nil
}

// grpcTLSFiles returns the certificate and key for the gRPC server. With
// GRPC_DEV_TLS set it generates a throwaway CA and server pair first.
func grpcTLSFiles(cfg *config.Config, logger *slog.Logger) (string, string, error) {
	if !cfg.GRPCDevTLS {
		return cfg.GRPCTLSCertFile, cfg.GRPCTLSKeyFile, nil
	}

	files, err := tlsutil.GenerateDevCerts([]string{"localhost", "127.0.0.1", "::1"}, cfg.GRPCDevCertDir)
	if err != nil {
		return "", "", fmt.Errorf("generate development certificates: %w", err)
	}
	logger.Warn("serving gRPC with generated development certificates",
		"ca", files.CA,
		"cert", files.ServerCrt,
	)
	return files.ServerCrt, files.ServerKey, nil
}
