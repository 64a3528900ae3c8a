package config

import (
	"time"

	"mercator-hq/textstudio/pkg/providers"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultCORSMaxAge      = 3600
	DefaultRateLimitRPS    = 5.0
	DefaultRateLimitBurst  = 10

	// Provider defaults
	DefaultMockDelay = 2 * time.Second

	// Storage defaults
	DefaultStorageBackend = "sqlite"
	DefaultStoragePath    = "data/settings.db"

	// Journal defaults
	DefaultJournalBackend        = "sqlite"
	DefaultJournalPath           = "data/journal.db"
	DefaultJournalAsyncBuffer    = 256
	DefaultJournalMaxFieldLength = 500
	DefaultJournalRetentionDays  = 30
	DefaultJournalPruneSchedule  = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "textstudio"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Default returns a configuration with every default applied.
// File values are decoded on top of it, so booleans that default to true
// stay true unless the file sets them.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
			},
			RateLimit: RateLimitConfig{Enabled: true},
		},
		Provider: ProviderConfig{
			MockDelay: DefaultMockDelay,
		},
		Journal: JournalConfig{
			Enabled:       true,
			RetentionDays: DefaultJournalRetentionDays,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactSecrets: true},
			Metrics: MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Fields where zero is meaningful (timeouts, mock delay, retention) are left alone.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)

	if cfg.Provider.Provider == "" {
		cfg.Provider.Provider = string(providers.ProviderMock)
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}

	applyJournalDefaults(&cfg.Journal)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}
}

func applyJournalDefaults(cfg *JournalConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultJournalBackend
	}
	if cfg.Path == "" {
		cfg.Path = DefaultJournalPath
	}
	if cfg.AsyncBuffer == 0 {
		cfg.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.MaxFieldLength == 0 {
		cfg.MaxFieldLength = DefaultJournalMaxFieldLength
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultJournalPruneSchedule
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
