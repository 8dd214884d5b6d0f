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

	assert.Equal(t, DefaultBaseURL, cfg.ArcGISBaseURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1000, cfg.RiverPageSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "@every 10m", cfg.RefreshSchedule)
	assert.Equal(t, 15.0, cfg.RiskRadiusKm)
	assert.Equal(t, 1000, cfg.RiskCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "flood-snapshots", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ARCGIS_BASE_URL", "https://example.test/arcgis/rest/services")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("RIVER_PAGE_SIZE", "250")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REFRESH_SCHEDULE", "@every 1h")
	t.Setenv("RISK_RADIUS_KM", "25")
	t.Setenv("RISK_CACHE_SIZE", "50")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-snapshots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/arcgis/rest/services", cfg.ArcGISBaseURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 250, cfg.RiverPageSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "@every 1h", cfg.RefreshSchedule)
	assert.Equal(t, 25.0, cfg.RiskRadiusKm)
	assert.Equal(t, 50, cfg.RiskCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaTopic)
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRiverPageSize(t *testing.T) {
	t.Setenv("RIVER_PAGE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RIVER_PAGE_SIZE")
}

func TestLoad_InvalidRiskRadius(t *testing.T) {
	t.Setenv("RISK_RADIUS_KM", "-3")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISK_RADIUS_KM")
}

func TestLoad_InvalidRefreshSchedule(t *testing.T) {
	t.Setenv("REFRESH_SCHEDULE", "every ten minutes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_SCHEDULE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
