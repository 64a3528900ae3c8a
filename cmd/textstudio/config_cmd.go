package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/config"
	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the provider configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active provider configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Update and persist the provider configuration",
	Long: `Update the active provider configuration and save it to the settings store.

Keys: provider, token, model, endpoint, custom_model. Keys not given keep
their current values.`,
	Example: `  textstudio config set provider=anthropic token=sk-ant-... model=claude-3-5-sonnet-20241022
  textstudio config set model=custom custom_model=my-org/my-model`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

var configTestCmd = &cobra.Command{
	Use:   "test [key=value...]",
	Short: "Check that a provider configuration carries the required credentials",
	Long: `Check the active provider configuration, optionally with overrides applied.
Overrides are not saved.`,
	RunE: runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configSetCmd, configTestCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configView is the printable form of a provider configuration.
type configView struct {
	Provider    string `json:"provider"`
	Token       string `json:"token"`
	Model       string `json:"model"`
	CustomModel string `json:"customModel,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}

func newConfigView(cfg providers.ProviderConfig) configView {
	return configView{
		Provider:    cfg.Provider,
		Token:       cfg.MaskedToken(),
		Model:       cfg.Model,
		CustomModel: cfg.CustomModel,
		Endpoint:    cfg.Endpoint,
	}
}

func printConfig(p *cli.Printer, cfg providers.ProviderConfig) error {
	if outputFmt == string(cli.FormatJSON) {
		return p.JSON(newConfigView(cfg))
	}

	view := newConfigView(cfg)
	rows := [][]string{
		{"provider", view.Provider},
		{"token", view.Token},
		{"model", displayModel(cfg.ResolvedModel())},
		{"endpoint", view.Endpoint},
	}
	if cfg.Model == providers.ModelCustom {
		rows = append(rows, []string{"custom_model", view.CustomModel})
	}
	return p.Table([]string{"Key", "Value"}, rows)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	return printConfig(p, a.gateway.Config())
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	update, err := parseConfigUpdate(args)
	if err != nil {
		return err
	}
	if update.Provider != nil {
		if _, ok := providers.ParseProviderID(*update.Provider); !ok {
			return cli.NewConfigError("provider", fmt.Sprintf("unknown provider %q", *update.Provider))
		}
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.gateway.Configure(update)
	if err := a.settings.SaveProviderConfig(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("failed to save provider config: %w", err)
	}

	result := a.gateway.TestConnection(nil)
	if err := p.Status(result.Success, result.Message); err != nil {
		return err
	}
	return printConfig(p, cfg)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	update, err := parseConfigUpdate(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	target := update.Apply(a.gateway.Config())
	result := a.gateway.TestConnection(&target)
	if err := p.Status(result.Success, result.Message); err != nil {
		return err
	}
	if !result.Success {
		return cli.NewConfigError("provider", result.Message)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if !configInitForce {
		if _, err := os.Stat(cfgFile); err == nil {
			return cli.NewConfigError("config", fmt.Sprintf("%s already exists (use --force to overwrite)", cfgFile))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Save(cfgFile, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default configuration to %s\n", cfgFile)
	return nil
}

// parseConfigUpdate parses key=value arguments into a ConfigUpdate.
func parseConfigUpdate(args []string) (gateway.ConfigUpdate, error) {
	var update gateway.ConfigUpdate
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return update, cli.NewConfigError(arg, "expected key=value")
		}

		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "provider":
			update.Provider = &value
		case "token":
			update.Token = &value
		case "model":
			update.Model = &value
		case "endpoint":
			update.Endpoint = &value
		case "custom_model", "custommodel":
			update.CustomModel = &value
		default:
			return update, cli.NewConfigError(key, "unknown key (valid: provider, token, model, endpoint, custom_model)")
		}
	}
	return update, nil
}
