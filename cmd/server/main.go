package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-risk-engine/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/climate-risk-engine/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-risk-engine/internal/adapter/kafka"
	"github.com/couchcryptid/climate-risk-engine/internal/adapter/nasapower"
	"github.com/couchcryptid/climate-risk-engine/internal/adapter/nominatim"
	"github.com/couchcryptid/climate-risk-engine/internal/adapter/openelevation"
	"github.com/couchcryptid/climate-risk-engine/internal/adapter/openmeteo"
	"github.com/couchcryptid/climate-risk-engine/internal/adapter/postgres"
	"github.com/couchcryptid/climate-risk-engine/internal/analysis"
	"github.com/couchcryptid/climate-risk-engine/internal/config"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Providers.
	nominatimClient := nominatim.NewClient(cfg.GeocodeTimeout, logger, metrics)
	geocoder := nominatim.NewCachedGeocoder(nominatimClient, cfg.GeocodeCacheSize, metrics)
	elevation := openelevation.NewClient(cfg.ElevationTimeout, logger, metrics)
	temperature := openmeteo.NewClient(cfg.TemperatureTimeout, logger, metrics)
	precipitation := nasapower.NewClient(cfg.PrecipitationTimeout, logger, metrics)

	// Generative insight (feature-flagged via GEMINI_ENABLED / GEMINI_API_KEY).
	var insight analysis.InsightProvider
	if cfg.GeminiEnabled {
		insight = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.InsightTimeout, logger, metrics)
		logger.Info("gemini insights enabled", "model", cfg.GeminiModel, "timeout", cfg.InsightTimeout)
	} else {
		logger.Info("gemini insights disabled, using fallback recommendations")
	}

	analyzer := analysis.NewAnalyzer(geocoder, elevation, temperature, precipitation, insight, logger, metrics)

	// Persistence (enabled when DATABASE_URL is set).
	var store analysis.Store
	var ready httpadapter.ReadinessChecker = httpadapter.StaticReadiness{}
	var pgStore *postgres.Store
	if cfg.DatabaseURL != "" {
		pgStore, err = postgres.NewStore(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		store = pgStore
		ready = pgStore
		logger.Info("postgres persistence enabled")
	} else {
		logger.Info("postgres persistence disabled")
	}

	// Downstream publishing (feature-flagged via KAFKA_ENABLED).
	var publisher analysis.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPublisher
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, analyzer, geocoder, store, publisher, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if pgStore != nil {
		if err := pgStore.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
