package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/minzi-dev/floodwatch/internal/domain"
)

// DefaultBaseURL is the public feature service hosting the Irrigation
// Department station, gauge, and river layers.
const DefaultBaseURL = "https://services3.arcgis.com/J7ZFXmR8rSmQ3FGf/arcgis/rest/services"

// Config holds all service settings, populated from environment variables.
type Config struct {
	ArcGISBaseURL string
	FetchTimeout  time.Duration
	RiverPageSize int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RefreshSchedule string
	RiskRadiusKm    float64
	RiskCacheSize   int

	// Kafka snapshot export configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	pageSize, err := parsePositiveInt("RIVER_PAGE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("RISK_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	radius := domain.DefaultRadiusKm
	if s := os.Getenv("RISK_RADIUS_KM"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, errors.New("invalid RISK_RADIUS_KM")
		}
		radius = v
	}

	schedule := EnvOrDefault("REFRESH_SCHEDULE", "@every 10m")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err)
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		ArcGISBaseURL: EnvOrDefault("ARCGIS_BASE_URL", DefaultBaseURL),
		FetchTimeout:  fetchTimeout,
		RiverPageSize: pageSize,

		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshSchedule: schedule,
		RiskRadiusKm:    radius,
		RiskCacheSize:   cacheSize,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   EnvOrDefault("KAFKA_TOPIC", "flood-snapshots"),
	}

	if cfg.ArcGISBaseURL == "" {
		return nil, errors.New("ARCGIS_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

// EnvOrDefault returns the environment variable's value, or def when unset.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
