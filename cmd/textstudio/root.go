package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "textstudio",
	Short: "Textstudio - format and generate text with any LLM provider",
	Long: `Textstudio sends text to reformat, or keywords to expand into prose, to a
configurable LLM backend and prints the markdown result.

Supported providers: mock (offline demo), huggingface, openai, azure,
anthropic and github. The active provider, its credentials and the prompt
templates are stored in the settings database and survive restarts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "textstudio.yaml", "config file path (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, markdown, json)")
}

// printer returns a Printer for the command's stdout honoring --output.
func printer(cmd *cobra.Command) (*cli.Printer, error) {
	format, err := cli.ParseOutputFormat(outputFmt)
	if err != nil {
		return nil, err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format), nil
}
