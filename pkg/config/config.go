package config

import (
	"time"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/telemetry/logging"
)

// Config is the root configuration structure.
type Config struct {
	// Server contains HTTP API server settings.
	Server ServerConfig `yaml:"server" toml:"server"`

	// Provider selects the LLM backend and its credentials.
	Provider ProviderConfig `yaml:"provider" toml:"provider"`

	// Storage configures where settings (provider config, prompts) persist.
	Storage StorageConfig `yaml:"storage" toml:"storage"`

	// Journal configures the completion journal and its retention.
	Journal JournalConfig `yaml:"journal" toml:"journal"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address" toml:"listen_address"`

	// ReadTimeout bounds reading a request. Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" toml:"read_timeout"`

	// WriteTimeout bounds writing a response. It must cover the slowest
	// completion, since the core applies no timeout of its own.
	// Default: 5m
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies. Default: 1MB
	MaxBodyBytes int64 `yaml:"max_body_bytes" toml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors" toml:"cors"`

	// RateLimit throttles API requests per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" toml:"max_age"`
}

// RateLimitConfig configures the token-bucket request limiter.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// RequestsPerSecond is the sustained rate per client. Default: 5
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`

	// Burst is the bucket size. Default: 10
	Burst int `yaml:"burst" toml:"burst"`
}

// ProviderConfig selects the initial provider. Values persisted in the
// settings store take precedence at startup.
type ProviderConfig struct {
	Provider    string `yaml:"provider" toml:"provider"`
	Token       string `yaml:"token" toml:"token"`
	Model       string `yaml:"model" toml:"model"`
	Endpoint    string `yaml:"endpoint" toml:"endpoint"`
	CustomModel string `yaml:"custom_model" toml:"custom_model"`

	// Timeout is applied to the shared HTTP client. 0 means no timeout.
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`

	// MockDelay is the simulated latency of the mock provider. Default: 2s
	MockDelay time.Duration `yaml:"mock_delay" toml:"mock_delay"`

	// HuggingFaceBaseURL overrides the Inference API base URL.
	HuggingFaceBaseURL string `yaml:"huggingface_base_url" toml:"huggingface_base_url"`

	// GitHubBaseURL overrides the GitHub Models base URL.
	GitHubBaseURL string `yaml:"github_base_url" toml:"github_base_url"`
}

// Connection returns the gateway-facing part of the provider section.
func (p ProviderConfig) Connection() providers.ProviderConfig {
	return providers.ProviderConfig{
		Provider:    p.Provider,
		Token:       p.Token,
		Model:       p.Model,
		Endpoint:    p.Endpoint,
		CustomModel: p.CustomModel,
	}
}

// StorageConfig selects the settings store backend.
type StorageConfig struct {
	// Backend is "memory" or "sqlite". Default: "sqlite"
	Backend string `yaml:"backend" toml:"backend"`

	// Path is the SQLite database file. Default: "data/settings.db"
	Path string `yaml:"path" toml:"path"`
}

// JournalConfig configures the completion journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Backend is "memory" or "sqlite". Default: "sqlite"
	Backend string `yaml:"backend" toml:"backend"`

	// Path is the SQLite database file. Default: "data/journal.db"
	Path string `yaml:"path" toml:"path"`

	// AsyncBuffer is the recorder queue size. Default: 256
	AsyncBuffer int `yaml:"async_buffer" toml:"async_buffer"`

	// MaxFieldLength truncates stored prompt and reply text. Default: 500
	MaxFieldLength int `yaml:"max_field_length" toml:"max_field_length"`

	// RetentionDays is how long records are kept. 0 keeps them forever. Default: 30
	RetentionDays int `yaml:"retention_days" toml:"retention_days"`

	// MaxRecords caps stored records. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records" toml:"max_records"`

	// PruneSchedule is a cron expression. Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule" toml:"prune_schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Default: "info"
	Level string `yaml:"level" toml:"level"`

	// Format is json or text. Default: "json"
	Format string `yaml:"format" toml:"format"`

	AddSource bool `yaml:"add_source" toml:"add_source"`

	// RedactSecrets scrubs credentials from logs. Default: true
	RedactSecrets bool `yaml:"redact_secrets" toml:"redact_secrets"`

	// RedactPatterns extend the built-in credential patterns.
	RedactPatterns []logging.RedactPattern `yaml:"redact_patterns" toml:"redact_patterns"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Path is the scrape path. Default: "/metrics"
	Path string `yaml:"path" toml:"path"`

	// Namespace prefixes every metric name. Default: "textstudio"
	Namespace string `yaml:"namespace" toml:"namespace"`
}
