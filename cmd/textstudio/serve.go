package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/config"
	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/journal"
	"mercator-hq/textstudio/pkg/server"
	"mercator-hq/textstudio/pkg/server/handlers"
	"mercator-hq/textstudio/pkg/telemetry/health"
)

var (
	serveListen      string
	serveWatchConfig bool
	serveWatchPeriod time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the textstudio HTTP API.

The server exposes formatting, generation, provider configuration and prompt
management under /api, an OpenAI-compatible /v1/chat/completions endpoint,
/health and, when enabled, Prometheus metrics.

With --watch the config file is reloaded on change and the provider section
is applied to the running gateway.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatchConfig, "watch", false, "reload the provider section when the config file changes")
	serveCmd.Flags().DurationVar(&serveWatchPeriod, "watch-debounce", config.DefaultDebounceInterval, "delay collapsing bursts of config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, appOptions{journal: true, metrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if serveListen != "" {
		cfg.Server.ListenAddress = serveListen
	}

	if a.journalStorage != nil {
		scheduler := journal.NewScheduler(journal.NewPruner(a.journalStorage, a.retentionConfig()))
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start journal pruning: %w", err)
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			a.logger.Info("journal pruning scheduled", "schedule", cfg.Journal.PruneSchedule, "next_run", next)
		}
	}

	if serveWatchConfig {
		if err := startConfigWatcher(ctx, a); err != nil {
			return err
		}
	}

	api := handlers.New(handlers.Options{
		Gateway:      a.gateway,
		Formatter:    a.formatter,
		Generator:    a.generator,
		Prompts:      a.prompts,
		Settings:     a.settings,
		ModelChecker: a.factory.ModelChecker(),
		ModelLister:  a.factory.ModelLister(),
	})

	srv := server.New(cfg.Server, server.Dependencies{
		API:         api,
		Health:      newHealthChecker(a),
		Metrics:     a.metrics,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Logger:      a.logger,
	})

	active := a.gateway.Config()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Textstudio %s listening on %s\n", Version, cfg.Server.ListenAddress)
	fmt.Fprintf(out, "✓ Provider: %s (model %s)\n", active.Provider, displayModel(active.ResolvedModel()))
	if a.metrics != nil {
		fmt.Fprintf(out, "✓ Metrics: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	if a.recorder != nil {
		fmt.Fprintf(out, "✓ Journal: %s (%s)\n", cfg.Journal.Backend, cfg.Journal.Path)
	}

	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newHealthChecker registers a check for each stateful component.
func newHealthChecker(a *app) *health.Checker {
	checker := health.New(health.DefaultCheckTimeout)
	checker.SetVersion(Version)
	checker.SetProviderFunc(func() string {
		return a.gateway.Config().Provider
	})

	checker.Register("settings", func(ctx context.Context) error {
		_, _, err := a.settings.Store().Get(ctx, "health")
		return err
	})
	if a.journalStorage != nil {
		checker.Register("journal", func(ctx context.Context) error {
			_, err := a.journalStorage.Count(ctx, &journal.Query{})
			return err
		})
	}
	checker.Register("provider", func(ctx context.Context) error {
		if result := a.gateway.TestConnection(nil); !result.Success {
			return errors.New(result.Message)
		}
		return nil
	})
	return checker
}

// startConfigWatcher applies provider changes from the config file to the
// running gateway.
func startConfigWatcher(ctx context.Context, a *app) error {
	watcher, err := config.NewWatcher(cfgFile, serveWatchPeriod)
	if err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	go func() {
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			active := a.gateway.Configure(gateway.UpdateFrom(cfg.Provider.Connection()))
			a.logger.Info("provider config reloaded",
				"provider", active.Provider,
				"model", active.ResolvedModel(),
				"token", active.MaskedToken(),
			)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("config watcher stopped", "error", err)
		}
	}()
	return nil
}

func displayModel(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
