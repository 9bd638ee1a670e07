package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidelens/seascan/internal/catalog"
	"github.com/tidelens/seascan/internal/config"
	"github.com/tidelens/seascan/internal/metrics"
	"github.com/tidelens/seascan/internal/raster"
	"github.com/tidelens/seascan/internal/render"
	"github.com/tidelens/seascan/internal/repository"
	"github.com/tidelens/seascan/internal/server"
	"github.com/tidelens/seascan/internal/service"
	"github.com/tidelens/seascan/internal/sites"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Load the site registry: configured YAML file, or the built-in defaults.
	registry := sites.Defaults()
	if cfg.SitesFile != "" {
		loaded, err := sites.Load(cfg.SitesFile)
		if err != nil {
			log.Fatalf("Failed to load site registry: %v", err)
		}
		registry = loaded
	}

	// Run history: PostgreSQL when configured, in-memory otherwise.
	var history repository.Interface = repository.NewMemoryRepository()
	if cfg.Database.Enabled() {
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		history = repository.NewRepository(dtb, logger)
	}

	// Create the imagery catalog provider using the factory pattern based on
	// configuration. This allows runtime selection between catalogs.
	providerConfig := catalog.ProviderConfig{
		Type:          catalog.ProviderType(cfg.ProviderType),
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.CatalogURL,
		Collection:    cfg.Collection,
		CloudCoverMax: cfg.CloudCoverMax,
		Logger:        logger,
	}

	provider, err := catalog.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create catalog provider: %v", err)
	}

	logger.InfoContext(ctx, "Imagery catalog provider initialized", "type", cfg.ProviderType)

	fetcher := raster.NewFetcher(cfg.CacheTTL, logger)
	renderer := render.NewRenderer(cfg.OutputDir, logger)

	analysisService := service.NewAnalysisService(
		logger,
		provider,
		cfg.ProviderType, // Provider name for metrics
		fetcher,
		renderer,
		history,
		appMetrics,
		cfg.CacheTTL,
	)

	publicURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	apiServer := server.New(logger, registry, analysisService, history, cfg.OutputDir, publicURL, cfg.RequestTimeout)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, cfg.MonitorPort)

	go func() {
		if serveErr := apiServer.Start(cfg.Port); serveErr != nil {
			logger.ErrorContext(ctx, "Dashboard server failed", "error", serveErr)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownTimeout := 10 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to stop dashboard server", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// startMonitoringServer starts an HTTP server that provides health check and
// metrics endpoints. It listens on the specified port and logs the server's
// status and any errors encountered.
func startMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		writer.WriteHeader(http.StatusOK)
		if _, err := writer.Write([]byte("OK")); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
