/*
Package cli provides command-line helpers for the textstudio command.

Output:

Completions print as rendered markdown when stdout is a terminal and as raw
markdown otherwise; --output json prints the result object instead:

	printer := cli.NewPrinter(os.Stdout, cli.FormatText)
	if err := printer.Completion(result); err != nil {
		return err
	}

Tables (providers list) are styled with lipgloss on a terminal and
tab-aligned otherwise.

Progress:

A Spinner on stderr covers the wait for a completion:

	spin := cli.NewSpinner(os.Stderr, "Formatting")
	spin.Start()
	result, err := formatter.Format(ctx, text, style)
	spin.Stop()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
