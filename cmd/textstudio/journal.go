package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/textstudio/pkg/cli"
	"mercator-hq/textstudio/pkg/journal"
)

var (
	journalLimit    int
	journalProvider string
	journalStatus   string
	journalSince    time.Duration
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and prune the completion journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent completions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records past the configured retention",
	Args:  cobra.NoArgs,
	RunE:  runJournalPrune,
}

func init() {
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of records")
	journalListCmd.Flags().StringVar(&journalProvider, "provider", "", "only records for this provider")
	journalListCmd.Flags().StringVar(&journalStatus, "status", "", "only records with this status (success, error)")
	journalListCmd.Flags().DurationVar(&journalSince, "since", 0, "only records newer than this age (e.g. 24h)")

	journalCmd.AddCommand(journalListCmd, journalPruneCmd)
	rootCmd.AddCommand(journalCmd)
}

func openJournalApp(cmd *cobra.Command) (*app, error) {
	a, err := newApp(cmd.Context(), appOptions{journal: true})
	if err != nil {
		return nil, err
	}
	if a.journalStorage == nil {
		a.Close()
		return nil, cli.NewConfigError("journal.enabled", "the journal is disabled")
	}
	return a, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	a, err := openJournalApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q := &journal.Query{
		Provider: journalProvider,
		Status:   journalStatus,
		Limit:    journalLimit,
	}
	if journalSince > 0 {
		since := time.Now().Add(-journalSince)
		q.Since = &since
	}

	records, err := a.journalStorage.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	if outputFmt == string(cli.FormatJSON) {
		return p.JSON(records)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		detail := truncateText(r.Prompt, 40)
		if r.Status == journal.StatusError {
			detail = truncateText(r.Error, 40)
		}
		rows = append(rows, []string{
			r.Time.Local().Format(time.DateTime),
			r.Provider,
			displayModel(r.Model),
			r.Status,
			r.Latency.Round(time.Millisecond).String(),
			strconv.Itoa(r.Messages),
			detail,
		})
	}
	return p.Table([]string{"Time", "Provider", "Model", "Status", "Latency", "Messages", "Detail"}, rows)
}

func runJournalPrune(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	a, err := openJournalApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	deleted, err := journal.NewPruner(a.journalStorage, a.retentionConfig()).Prune(cmd.Context())
	if err != nil {
		return err
	}
	return p.Status(true, fmt.Sprintf("Deleted %d journal records", deleted))
}
