// Package config provides application configuration loading from environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultTMDBBaseURL is the TMDB v3 API root.
	DefaultTMDBBaseURL = "https://api.themoviedb.org/3"
	// DefaultTMDBImageBaseURL is the TMDB image CDN root.
	DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultTMDBLanguage is the language tag sent with every search.
	DefaultTMDBLanguage = "en-US"
	// DefaultTMDBTimeout bounds a single catalog request.
	DefaultTMDBTimeout = 10 * time.Second
	// MinHashSaltLength is the minimum accepted LOG_HASH_SALT length.
	MinHashSaltLength = 32
)

// Telemetry exporter names accepted in OTEL_EXPORTER.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// OTLP protocols accepted in OTEL_EXPORTER_OTLP_PROTOCOL.
const (
	ProtocolHTTP = "http/protobuf"
	ProtocolGRPC = "grpc"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken string
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string
	TMDBTimeout      time.Duration
	LogLevel         string
	LogFormat        string
	LogHashSalt      string
	OTelExporter     string
	OTelProtocol     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := load()

	// Validate required configuration.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadCatalog reads the same environment as Load but only requires what a
// catalog lookup needs, for CLI commands that never start the bot.
func LoadCatalog() (*Config, error) {
	cfg := load()

	if cfg.TMDBAPIKey == "" {
		return nil, errors.New("configuration validation failed:\n  - TMDB_API_KEY is required")
	}

	return cfg, nil
}

func load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TMDBAPIKey:       strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		TMDBBaseURL:      envOrDefault("TMDB_BASE_URL", DefaultTMDBBaseURL),
		TMDBImageBaseURL: envOrDefault("TMDB_IMAGE_BASE_URL", DefaultTMDBImageBaseURL),
		TMDBLanguage:     envOrDefault("TMDB_LANGUAGE", DefaultTMDBLanguage),
		TMDBTimeout:      DefaultTMDBTimeout,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "console"),
		LogHashSalt:      os.Getenv("LOG_HASH_SALT"),
		OTelExporter:     strings.ToLower(envOrDefault("OTEL_EXPORTER", ExporterNone)),
		OTelProtocol:     strings.ToLower(envOrDefault("OTEL_EXPORTER_OTLP_PROTOCOL", ProtocolHTTP)),
	}

	if timeoutStr := os.Getenv("TMDB_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.TMDBTimeout = d
		}
	}

	return cfg
}

// envOrDefault returns the trimmed value of key, or def when unset or blank.
func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	if c.TMDBAPIKey == "" {
		errs = append(errs, "TMDB_API_KEY is required")
	}

	if len(c.LogHashSalt) < MinHashSaltLength {
		errs = append(errs, fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", MinHashSaltLength))
	}

	switch c.OTelExporter {
	case ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER %q is not one of none, stdout, otlp", c.OTelExporter))
	}

	switch c.OTelProtocol {
	case ProtocolHTTP, ProtocolGRPC:
	default:
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER_OTLP_PROTOCOL %q is not one of http/protobuf, grpc", c.OTelProtocol))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
