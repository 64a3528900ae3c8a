package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"mercator-hq/textstudio/pkg/config"
	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/journal"
	"mercator-hq/textstudio/pkg/providerfactory"
	"mercator-hq/textstudio/pkg/settings"
	"mercator-hq/textstudio/pkg/studio"
	"mercator-hq/textstudio/pkg/telemetry/logging"
	"mercator-hq/textstudio/pkg/telemetry/metrics"
)

// appOptions selects the optional components of an app.
type appOptions struct {
	journal bool
	metrics bool
}

// app is the wired set of components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	settings  *settings.Settings
	factory   *providerfactory.Factory
	gateway   *gateway.Gateway
	prompts   *studio.PromptBook
	formatter *studio.Formatter
	generator *studio.Generator

	metrics        *metrics.Collector
	journalStorage journal.Storage
	recorder       *journal.Recorder

	closers []func() error
}

// newApp loads configuration and wires the components. Provider settings
// persisted by earlier runs take precedence over the config file.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:          cfg.Telemetry.Logging.Level,
		Format:         cfg.Telemetry.Logging.Format,
		AddSource:      cfg.Telemetry.Logging.AddSource,
		RedactSecrets:  cfg.Telemetry.Logging.RedactSecrets,
		RedactPatterns: cfg.Telemetry.Logging.RedactPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	store, err := openSettingsStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.settings = settings.New(store)
	a.closers = append(a.closers, store.Close)

	initial := cfg.Provider.Connection()
	if stored, found, err := a.settings.ProviderConfig(ctx); err != nil {
		logger.Warn("failed to load stored provider config, using config file", "error", err)
	} else if found {
		initial = stored
	}

	a.prompts = studio.NewPromptBook()
	if templates, err := a.settings.Prompts(ctx); err != nil {
		logger.Warn("failed to load stored prompts, using defaults", "error", err)
	} else {
		a.prompts.Set(templates)
	}

	mockDelay := cfg.Provider.MockDelay
	a.factory = providerfactory.New(providerfactory.Options{
		HTTPClient:         &http.Client{Timeout: cfg.Provider.Timeout},
		MockDelay:          &mockDelay,
		HuggingFaceBaseURL: cfg.Provider.HuggingFaceBaseURL,
		GitHubBaseURL:      cfg.Provider.GitHubBaseURL,
	})

	a.gateway = gateway.New(a.factory, gateway.Options{
		Initial: &initial,
		Logger:  logger,
	})

	if opts.metrics && cfg.Telemetry.Metrics.Enabled {
		a.metrics = metrics.NewCollector(metrics.Config{
			Enabled:        true,
			Namespace:      cfg.Telemetry.Metrics.Namespace,
			ProcessMetrics: true,
		}, nil)
		a.gateway.AddObserver(a.metrics)
	}
	if opts.journal && cfg.Journal.Enabled {
		if err := a.openJournal(); err != nil {
			a.Close()
			return nil, err
		}
		a.gateway.AddObserver(a.recorder)
	}

	a.formatter = studio.NewFormatter(a.gateway, a.prompts)
	a.generator = studio.NewGenerator(a.gateway, a.prompts)

	logger.Debug("textstudio initialized",
		"config", cfgFile,
		"provider", initial.Provider,
		"storage", cfg.Storage.Backend,
		"journal", cfg.Journal.Enabled && opts.journal,
	)
	return a, nil
}

// openJournal opens the journal storage and starts its recorder.
func (a *app) openJournal() error {
	storage, err := openJournalStorage(a.cfg.Journal)
	if err != nil {
		return err
	}
	a.journalStorage = storage

	recorderCfg := journal.DefaultConfig()
	recorderCfg.AsyncBuffer = a.cfg.Journal.AsyncBuffer
	recorderCfg.MaxFieldLength = a.cfg.Journal.MaxFieldLength
	recorderCfg.Redactor = logging.NewRedactor(a.cfg.Telemetry.Logging.RedactPatterns)
	a.recorder = journal.NewRecorder(storage, recorderCfg)

	// Closers run in reverse: the recorder drains before storage closes
	a.closers = append(a.closers, storage.Close, a.recorder.Close)
	return nil
}

// retentionConfig maps the journal section to a RetentionConfig.
func (a *app) retentionConfig() *journal.RetentionConfig {
	return &journal.RetentionConfig{
		RetentionDays: a.cfg.Journal.RetentionDays,
		MaxRecords:    a.cfg.Journal.MaxRecords,
		PruneSchedule: a.cfg.Journal.PruneSchedule,
	}
}

// Close releases every component in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openSettingsStore(cfg config.StorageConfig) (settings.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return settings.NewMemoryStore(), nil
	case config.BackendSQLite:
		if err := ensureParentDir(cfg.Path); err != nil {
			return nil, err
		}
		store, err := settings.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func openJournalStorage(cfg config.JournalConfig) (journal.Storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return journal.NewMemoryStorage(), nil
	case config.BackendSQLite:
		if err := ensureParentDir(cfg.Path); err != nil {
			return nil, err
		}
		sqliteCfg := journal.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Path
		storage, err := journal.NewSQLiteStorage(sqliteCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported journal backend: %s", cfg.Backend)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
