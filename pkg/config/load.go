package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TEXTSTUDIO_"

// Load reads the configuration at path, applies defaults and environment
// overrides, and validates the result. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile reads the configuration at path and applies defaults, without
// environment overrides or validation.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// Save writes cfg to path in the format chosen by its extension.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create configuration directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies TEXTSTUDIO_* environment variables.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	setString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
	setDuration(&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setBool(&cfg.Server.CORS.Enabled, "SERVER_CORS_ENABLED")
	setBool(&cfg.Server.RateLimit.Enabled, "SERVER_RATE_LIMIT_ENABLED")
	if val := os.Getenv(EnvPrefix + "SERVER_RATE_LIMIT_RPS"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Server.RateLimit.RequestsPerSecond = f
		}
	}

	// Provider overrides
	setString(&cfg.Provider.Provider, "PROVIDER")
	setString(&cfg.Provider.Token, "PROVIDER_TOKEN")
	setString(&cfg.Provider.Model, "PROVIDER_MODEL")
	setString(&cfg.Provider.Endpoint, "PROVIDER_ENDPOINT")
	setString(&cfg.Provider.CustomModel, "PROVIDER_CUSTOM_MODEL")
	setDuration(&cfg.Provider.Timeout, "PROVIDER_TIMEOUT")
	setDuration(&cfg.Provider.MockDelay, "PROVIDER_MOCK_DELAY")

	// Storage overrides
	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Storage.Path, "STORAGE_PATH")

	// Journal overrides
	setBool(&cfg.Journal.Enabled, "JOURNAL_ENABLED")
	setString(&cfg.Journal.Backend, "JOURNAL_BACKEND")
	setString(&cfg.Journal.Path, "JOURNAL_PATH")
	if val := os.Getenv(EnvPrefix + "JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.RetentionDays = i
		}
	}

	// Telemetry overrides
	setString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOG_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOG_FORMAT")
	setBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
}

func setString(dst *string, key string) {
	if val, ok := os.LookupEnv(EnvPrefix + key); ok {
		*dst = val
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
