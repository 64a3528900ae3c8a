package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/gateway"
	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/studio"
)

var (
	formatStyle    string
	generateStyle  string
	generateLang   string
	generateCustom string

	chatFeature string
	chatStyle   string
	chatLang    string
	chatCustom  string
)

var formatCmd = &cobra.Command{
	Use:   "format [text]",
	Short: "Reformat text in a style",
	Long: `Reformat text as a social post, blog post or minimal note.

The text is taken from the arguments, or from stdin when no arguments are
given or the only argument is "-".`,
	Example: `  textstudio format --style blog "we shipped the new release today"
  cat notes.txt | textstudio format --style minimal`,
	RunE: runFormat,
}

var generateCmd = &cobra.Command{
	Use:   "generate [keywords]",
	Short: "Generate text from keywords",
	Long: `Generate a news article, blog post, essay, diary entry or story from a
topic or keywords, in the selected output language.`,
	Example: `  textstudio generate --style story --language english "lighthouse, storm"
  textstudio generate --language custom --custom-language Dutch "tulips"`,
	RunE: runGenerate,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive formatting or generation session",
	Long: `Read one input per line and send it with the conversation so far.

Each turn keeps the last exchanges as context, so follow-ups such as
"make it shorter" refine the previous answer. Type /reset to clear the
conversation and /quit to exit.`,
	RunE: runChat,
}

func init() {
	formatCmd.Flags().StringVarP(&formatStyle, "style", "s", studio.DefaultFormatStyle, "formatting style (social, blog, minimal)")

	generateCmd.Flags().StringVarP(&generateStyle, "style", "s", studio.DefaultGenerateStyle, "generation style (news, blog, essay, diary, story)")
	generateCmd.Flags().StringVarP(&generateLang, "language", "L", studio.DefaultLanguage, "output language key or \"custom\"")
	generateCmd.Flags().StringVar(&generateCustom, "custom-language", "", "language name used with --language custom")

	chatCmd.Flags().StringVarP(&chatFeature, "feature", "f", "format", "feature to chat with (format, generate)")
	chatCmd.Flags().StringVarP(&chatStyle, "style", "s", "", "style (defaults to the feature's default style)")
	chatCmd.Flags().StringVarP(&chatLang, "language", "L", studio.DefaultLanguage, "output language for generate")
	chatCmd.Flags().StringVar(&chatCustom, "custom-language", "", "language name used with --language custom")

	rootCmd.AddCommand(formatCmd, generateCmd, chatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return cli.NewCommandError(cmd.Name(), err)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return runCompletion(ctx, cmd, a, "Formatting", func(ctx context.Context) (*providers.CompletionResult, error) {
		return a.formatter.Format(ctx, text, formatStyle)
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	keywords, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return cli.NewCommandError(cmd.Name(), err)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	req := studio.GenerateRequest{
		Keywords:       keywords,
		Style:          generateStyle,
		Language:       generateLang,
		CustomLanguage: generateCustom,
	}
	return runCompletion(ctx, cmd, a, "Generating", func(ctx context.Context) (*providers.CompletionResult, error) {
		return a.generator.Generate(ctx, req)
	})
}

// runCompletion runs fn behind a spinner and prints the result. A gateway
// failure prints its fallback content before returning the error.
func runCompletion(ctx context.Context, cmd *cobra.Command, a *app, label string, fn func(context.Context) (*providers.CompletionResult, error)) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	provider := a.gateway.Config().Provider
	spinner := cli.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("%s with %s", label, provider))
	spinner.Start()
	result, err := fn(ctx)
	elapsed := spinner.Stop()

	if err != nil {
		return completionError(cmd, p, err)
	}

	a.logger.Debug("completion finished", "provider", provider, "duration", elapsed)
	return p.Completion(result)
}

func completionError(cmd *cobra.Command, p *cli.Printer, err error) error {
	if errors.Is(err, studio.ErrEmptyInput) {
		return cli.NewCommandError(cmd.Name(), err)
	}

	details := gateway.ParseError(err)
	if details.Structured && outputFmt == string(cli.FormatJSON) {
		if jsonErr := p.JSON(details); jsonErr != nil {
			return jsonErr
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), details.Content)
	}
	return err
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		history *studio.History
		send    func(ctx context.Context, input string) (*providers.CompletionResult, error)
	)
	switch chatFeature {
	case "format":
		history = a.formatter.History()
		send = func(ctx context.Context, input string) (*providers.CompletionResult, error) {
			return a.formatter.Format(ctx, input, chatStyle)
		}
	case "generate":
		history = a.generator.History()
		send = func(ctx context.Context, input string) (*providers.CompletionResult, error) {
			return a.generator.Generate(ctx, studio.GenerateRequest{
				Keywords:       input,
				Style:          chatStyle,
				Language:       chatLang,
				CustomLanguage: chatCustom,
			})
		}
	default:
		return cli.NewConfigError("feature", fmt.Sprintf("unknown feature %q (valid: format, generate)", chatFeature))
	}

	return chatLoop(ctx, cmd, a, history, send)
}

// chatLoop reads one input per line until EOF, /quit or cancellation.
func chatLoop(ctx context.Context, cmd *cobra.Command, a *app, history *studio.History, send func(context.Context, string) (*providers.CompletionResult, error)) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}
	interactive := cli.IsTerminal(cmd.OutOrStdout())

	cfg := a.gateway.Config()
	p.Println(fmt.Sprintf("Chatting with %s (%s). /reset clears the conversation, /quit exits.", cfg.Provider, chatFeature))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if interactive {
			fmt.Fprint(cmd.OutOrStdout(), "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			history.Reset()
			p.Println("Conversation cleared.")
			continue
		}

		spinner := cli.NewSpinner(cmd.ErrOrStderr(), "Thinking")
		spinner.Start()
		result, err := send(ctx, input)
		spinner.Stop()

		if err != nil {
			details := gateway.ParseError(err)
			_ = p.Status(false, fmt.Sprintf("%s %s", details.Content, details.OriginalError))
			continue
		}
		if err := p.Completion(result); err != nil {
			return err
		}
	}
}

// readInput joins args, or reads stdin when args are empty or "-".
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", studio.ErrEmptyInput
	}
	return text, nil
}
