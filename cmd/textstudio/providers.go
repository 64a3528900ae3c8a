package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/providers"
)

var providersToken string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect the supported providers",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers and their requirements",
	Args:  cobra.NoArgs,
	RunE:  runProvidersList,
}

var providersModelsCmd = &cobra.Command{
	Use:   "models <provider>",
	Short: "List the models of a provider",
	Long: `List the models a provider offers.

For github the live GitHub Models catalog is fetched with the token from
--token or the active configuration; other providers print their built-in
model options.`,
	Args: cobra.ExactArgs(1),
	RunE: runProvidersModels,
}

var providersCheckCmd = &cobra.Command{
	Use:   "check <model>",
	Short: "Check whether a Hugging Face model is available",
	Args:  cobra.ExactArgs(1),
	RunE:  runProvidersCheck,
}

func init() {
	providersModelsCmd.Flags().StringVar(&providersToken, "token", "", "API token (defaults to the active configuration)")
	providersCheckCmd.Flags().StringVar(&providersToken, "token", "", "API token (defaults to the active configuration)")

	providersCmd.AddCommand(providersListCmd, providersModelsCmd, providersCheckCmd)
	rootCmd.AddCommand(providersCmd)
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	active := a.gateway.Config().Provider

	rows := make([][]string, 0, len(providers.AllProviderIDs))
	for _, entry := range providers.Catalog() {
		mark := ""
		if string(entry.ID) == active {
			mark = "*"
		}
		rows = append(rows, []string{
			mark,
			string(entry.ID),
			entry.DisplayName,
			yesNo(entry.TokenRequired),
			yesNo(entry.EndpointRequired),
			strconv.Itoa(len(entry.ModelOptions)),
		})
	}
	return p.Table([]string{"Active", "ID", "Name", "Token", "Endpoint", "Models"}, rows)
}

func runProvidersModels(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	id, ok := providers.ParseProviderID(args[0])
	if !ok {
		return cli.NewConfigError("provider", fmt.Sprintf("unknown provider %q", args[0]))
	}

	if id != providers.ProviderGitHub {
		entry, _ := providers.LookupCatalog(id)
		rows := make([][]string, 0, len(entry.ModelOptions))
		for _, m := range entry.ModelOptions {
			rows = append(rows, []string{m.Value, m.DisplayName, "", ""})
		}
		return p.Table([]string{"Value", "Name", "Publisher", "Summary"}, rows)
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	spinner := cli.NewSpinner(cmd.ErrOrStderr(), "Fetching GitHub models")
	spinner.Start()
	models, err := a.factory.ModelLister().GetAvailableModels(cmd.Context(), tokenFor(a, providers.ProviderGitHub))
	spinner.Stop()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{m.Value, m.DisplayName, m.Publisher, truncateText(m.Summary, 60)})
	}
	return p.Table([]string{"Value", "Name", "Publisher", "Summary"}, rows)
}

func runProvidersCheck(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	spinner := cli.NewSpinner(cmd.ErrOrStderr(), "Checking "+args[0])
	spinner.Start()
	availability := a.factory.ModelChecker().CheckModelAvailability(cmd.Context(), args[0], tokenFor(a, providers.ProviderHuggingFace))
	spinner.Stop()

	if availability.Available {
		return p.Status(true, fmt.Sprintf("%s is available", args[0]))
	}
	if err := p.Status(false, fmt.Sprintf("%s is not available: %s", args[0], availability.Message)); err != nil {
		return err
	}
	return cli.NewCommandError("providers check", fmt.Errorf("model %s is not available", args[0]))
}

// tokenFor returns --token, or the active token when id is the active provider.
func tokenFor(a *app, id providers.ProviderID) string {
	if providersToken != "" {
		return strings.TrimSpace(providersToken)
	}
	cfg := a.gateway.Config()
	if cfg.Provider == string(id) {
		return cfg.TrimmedToken()
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
