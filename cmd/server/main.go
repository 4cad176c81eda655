// Package main provides the entry point for the examiner recommendation
// service HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helixir/examiner-recommendation-service/internal/config"
	"github.com/helixir/examiner-recommendation-service/internal/dataset"
	"github.com/helixir/examiner-recommendation-service/internal/observability"
	"github.com/helixir/examiner-recommendation-service/internal/recommend"
	httpserver "github.com/helixir/examiner-recommendation-service/internal/server/http"
)

const metricsNamespace = "examrec"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("examiner-recommendation-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up metrics collection if enabled.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(metricsNamespace)
	}

	// Load the dataset snapshot. The service refuses queries until a snapshot
	// exists, so a load failure here is fatal at startup.
	store := dataset.NewStore(cfg.Data.CorpusPath, cfg.Data.RosterPath, logger)
	if err := store.Load(); err != nil {
		if metrics != nil {
			metrics.DatasetReloads.WithLabelValues("failure").Inc()
		}
		return fmt.Errorf("load dataset: %w", err)
	}
	if metrics != nil {
		metrics.DatasetReloads.WithLabelValues("success").Inc()
		snap := store.Snapshot()
		metrics.DatasetRecords.WithLabelValues("corpus").Set(float64(len(snap.Corpus)))
		metrics.DatasetRecords.WithLabelValues("roster").Set(float64(len(snap.Roster)))
	}

	// Create the recommendation service.
	svc := recommend.NewService(store, recommend.Options{
		ScanWorkers: cfg.Recommend.ScanWorkers,
		TopSize:     cfg.Recommend.TopSize,
	}, logger, metrics)

	// Create the HTTP REST API server.
	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MinQueryWords:   cfg.Recommend.MinQueryWords,
		RateLimitRPS:    cfg.Recommend.RateLimitRPS,
		RateLimitBurst:  cfg.Recommend.RateLimitBurst,
	}
	httpSrv := httpserver.NewServer(httpCfg, svc, store, logger)

	// Set up Prometheus metrics handler on a separate port if enabled.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.ReadTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	// Start HTTP REST API server in background.
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start metrics server if configured.
	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("examiner-recommendation-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down examiner-recommendation-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("examiner-recommendation-service shutdown complete")
	return nil
}
