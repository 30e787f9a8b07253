package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 10*time.Second, cfg.ElevationTimeout)
	assert.Equal(t, 15*time.Second, cfg.TemperatureTimeout)
	assert.Equal(t, 15*time.Second, cfg.PrecipitationTimeout)
	assert.Equal(t, 30*time.Second, cfg.InsightTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)

	assert.False(t, cfg.GeminiEnabled)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)

	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "climate-assessments", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GEOCODE_TIMEOUT", "2s")
	t.Setenv("ELEVATION_TIMEOUT", "4s")
	t.Setenv("TEMPERATURE_TIMEOUT", "6s")
	t.Setenv("PRECIPITATION_TIMEOUT", "8s")
	t.Setenv("INSIGHT_TIMEOUT", "45s")
	t.Setenv("GEOCODE_CACHE_SIZE", "250")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("DATABASE_URL", "postgres://localhost/climate")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "assessments")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 4*time.Second, cfg.ElevationTimeout)
	assert.Equal(t, 6*time.Second, cfg.TemperatureTimeout)
	assert.Equal(t, 8*time.Second, cfg.PrecipitationTimeout)
	assert.Equal(t, 45*time.Second, cfg.InsightTimeout)
	assert.Equal(t, 250, cfg.GeocodeCacheSize)
	assert.True(t, cfg.GeminiEnabled)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "postgres://localhost/climate", cfg.DatabaseURL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "assessments", cfg.KafkaTopic)
}

func TestLoad_GeminiDisabledDespiteKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.GeminiEnabled)
}

func TestLoad_GeminiEnabledWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("GEOCODE_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	t.Setenv("INSIGHT_TIMEOUT", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSIGHT_TIMEOUT")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_CACHE_SIZE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
