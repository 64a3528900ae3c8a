// Package config loads and validates textstudio configuration.
//
// # Configuration Loading
//
// Configuration is read from a YAML or TOML file; the format is chosen by
// extension (".toml" selects TOML, anything else YAML):
//
//	cfg, err := config.Load("textstudio.yaml")
//
// A missing file is not an error: Load returns the defaults with
// environment overrides applied.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention TEXTSTUDIO_SECTION_FIELD:
//
//   - TEXTSTUDIO_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - TEXTSTUDIO_PROVIDER overrides provider.provider
//   - TEXTSTUDIO_PROVIDER_TOKEN overrides provider.token
//   - TEXTSTUDIO_TELEMETRY_LOG_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher observes the file with fsnotify and hands every successfully
// reloaded configuration to a callback, which the server uses to push the
// provider section into the gateway.
package config
