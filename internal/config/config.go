package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Per-provider outbound timeouts. No retries are performed; a slow
	// provider degrades to its documented default instead.
	GeocodeTimeout       time.Duration
	ElevationTimeout     time.Duration
	TemperatureTimeout   time.Duration
	PrecipitationTimeout time.Duration
	InsightTimeout       time.Duration

	GeocodeCacheSize int

	// Gemini generative-text configuration (feature-flagged via
	// GEMINI_API_KEY / GEMINI_ENABLED). Disabled means every assessment
	// carries the documented fallback insight.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiEnabled bool

	// Optional Postgres persistence; disabled when DATABASE_URL is unset.
	DatabaseURL string

	// Optional Kafka publishing of completed assessments.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := durationEnv("GEOCODE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	elevationTimeout, err := durationEnv("ELEVATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	temperatureTimeout, err := durationEnv("TEMPERATURE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	precipitationTimeout, err := durationEnv("PRECIPITATION_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	insightTimeout, err := durationEnv("INSIGHT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intEnv("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	geminiEnabled := geminiKey != ""
	if v := os.Getenv("GEMINI_ENABLED"); v != "" {
		geminiEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodeTimeout:       geocodeTimeout,
		ElevationTimeout:     elevationTimeout,
		TemperatureTimeout:   temperatureTimeout,
		PrecipitationTimeout: precipitationTimeout,
		InsightTimeout:       insightTimeout,

		GeocodeCacheSize: cacheSize,

		GeminiAPIKey:  geminiKey,
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEnabled: geminiEnabled,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "climate-assessments"),
	}

	if cfg.GeminiEnabled && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_ENABLED is true but GEMINI_API_KEY is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
