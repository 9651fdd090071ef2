package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// SourceTTLs are the fixed per-source cache lifetimes. These trade data
// freshness against upstream rate limits and are deliberately not
// env-tunable: changing them changes request volume against public APIs.
type SourceTTLs struct {
	Alerts      time.Duration
	Shelters    time.Duration
	Reports     time.Duration
	Instability time.Duration
	Outlook     time.Duration
	MCD         time.Duration
}

// DefaultTTLs returns the fixed TTL set. Mesoscale discussions share
// the alert TTL: they are short-fuse products in the same freshness
// class as warnings.
func DefaultTTLs() SourceTTLs {
	return SourceTTLs{
		Alerts:      2 * time.Minute,
		Shelters:    5 * time.Minute,
		Reports:     10 * time.Minute,
		Instability: time.Hour,
		Outlook:     6 * time.Hour,
		MCD:         2 * time.Minute,
	}
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	UserAgent          string
	DefaultRadiusMiles float64
	FetchTimeout       time.Duration
	BulkFetchTimeout   time.Duration

	ShelterDBPath string

	// Kafka assessment publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	TTLs SourceTTLs
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	bulkTimeout, err := parseDuration("BULK_FETCH_TIMEOUT", "25s")
	if err != nil {
		return nil, err
	}
	radius, err := parseRadius()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UserAgent:          envOrDefault("USER_AGENT", "storm-threat-service/1.0 (github.com/couchcryptid/storm-threat-service)"),
		DefaultRadiusMiles: radius,
		FetchTimeout:       fetchTimeout,
		BulkFetchTimeout:   bulkTimeout,

		ShelterDBPath: envOrDefault("SHELTER_DB_PATH", "data/shelters.db"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "threat-assessments"),

		TTLs: DefaultTTLs(),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseRadius() (float64, error) {
	s := envOrDefault("DEFAULT_RADIUS_MILES", "25")
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 0, errors.New("invalid DEFAULT_RADIUS_MILES")
	}
	return r, nil
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
