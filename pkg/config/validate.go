package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/telemetry/logging"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the configuration and returns a ValidationError if any
// rule fails.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProvider(&cfg.Provider)...)
	errs = append(errs, validateBackend("storage", cfg.Storage.Backend, cfg.Storage.Path)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must not be negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must not be negative"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "max body bytes must not be negative"})
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, FieldError{Field: "server.rate_limit.requests_per_second", Message: "must be positive when rate limiting is enabled"})
		}
		if cfg.RateLimit.Burst <= 0 {
			errs = append(errs, FieldError{Field: "server.rate_limit.burst", Message: "must be positive when rate limiting is enabled"})
		}
	}

	return errs
}

func validateProvider(cfg *ProviderConfig) []FieldError {
	var errs []FieldError

	if _, ok := providers.ParseProviderID(cfg.Provider); !ok {
		errs = append(errs, FieldError{
			Field:   "provider.provider",
			Message: fmt.Sprintf("unknown provider %q (valid: %s)", cfg.Provider, providerList()),
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "provider.timeout", Message: "timeout must not be negative"})
	}
	if cfg.MockDelay < 0 {
		errs = append(errs, FieldError{Field: "provider.mock_delay", Message: "mock delay must not be negative"})
	}
	if cfg.Model == providers.ModelCustom && strings.TrimSpace(cfg.CustomModel) == "" {
		errs = append(errs, FieldError{Field: "provider.custom_model", Message: "custom model name is required when model is \"custom\""})
	}

	return errs
}

func validateBackend(section, backend, path string) []FieldError {
	switch backend {
	case BackendMemory:
		return nil
	case BackendSQLite:
		if path == "" {
			return []FieldError{{Field: section + ".path", Message: "path is required for the sqlite backend"}}
		}
		return nil
	default:
		return []FieldError{{Field: section + ".backend", Message: fmt.Sprintf("unknown backend %q (valid: memory, sqlite)", backend)}}
	}
}

func validateJournal(cfg *JournalConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	errs := validateBackend("journal", cfg.Backend, cfg.Path)

	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "journal.retention_days", Message: "retention days must not be negative"})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{Field: "journal.max_records", Message: "max records must not be negative"})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{Field: "journal.prune_schedule", Message: fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{Field: "telemetry.logging.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(cfg.Logging.Format); err != nil {
		errs = append(errs, FieldError{Field: "telemetry.logging.format", Message: err.Error()})
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "metrics path must start with /"})
	}

	return errs
}

func providerList() string {
	ids := make([]string, len(providers.AllProviderIDs))
	for i, id := range providers.AllProviderIDs {
		ids[i] = string(id)
	}
	return strings.Join(ids, ", ")
}
