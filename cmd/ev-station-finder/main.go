package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/AzadehZam/ev-station-finder/internal/api/http"
	"github.com/AzadehZam/ev-station-finder/internal/config"
	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/locate"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/refresh"
	"github.com/AzadehZam/ev-station-finder/internal/reservations"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
	"github.com/AzadehZam/ev-station-finder/internal/stations/providers"
	"github.com/AzadehZam/ev-station-finder/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Station source: the directory API, or the fixture file when no
	// upstream is configured.
	var source stations.Source
	if cfg.UpstreamBaseURL != "" {
		source = providers.NewClient(httpClient, cfg.UpstreamBaseURL, cfg.UpstreamAPIToken, logger, metrics)
	} else {
		source = providers.NewFixture(cfg.FixturePath, logger, metrics)
	}
	logger.Info("station source configured", "source", source.Name())

	snap := store.NewSnapshot()
	clock := clockwork.NewRealClock()

	near := geo.Point{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}
	query := stations.Query{Near: &near, RadiusKm: cfg.SearchRadiusKm}

	coord := refresh.New(source, snap, query, cfg.RefreshInterval, clock, logger, metrics)

	// Initial load. Not fatal on failure; the snapshot fills on the
	// next successful refresh and the status endpoint reports the
	// error meanwhile.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := coord.Refresh(loadCtx); err != nil {
		logger.Error("initial station load failed", "error", err)
	}
	cancelLoad()

	if err := coord.Start(cfg.LiveUpdates); err != nil {
		logger.Error("failed to start refresh scheduler", "error", err)
		os.Exit(1)
	}
	defer coord.Stop()

	// Free-text place lookups need an API key; without one the
	// handlers fall back to the default area.
	var resolver locate.Resolver
	if cfg.GeocoderAPIKey != "" {
		resolver = locate.NewGoogleResolver(cfg.GeocoderAPIKey, logger, metrics)
	}

	// Reservations ride the same upstream as the station directory;
	// the fixture setup runs without them.
	var resClient *reservations.Client
	if cfg.UpstreamBaseURL != "" {
		resClient = reservations.New(httpClient, cfg.UpstreamBaseURL, cfg.UpstreamAPIToken, logger)
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "ev-station-finder",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ev-station-finder",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Snapshot:     snap,
		Coordinator:  coord,
		Resolver:     resolver,
		Reservations: resClient,
		Unit:         cfg.DisplayUnits,
		Debounce:     cfg.SearchDebounce,
		Clock:        clock,
		Logger:       logger,
		Metrics:      metrics,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()
	logger.Info("server listening", "port", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
