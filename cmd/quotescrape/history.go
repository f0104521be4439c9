package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nao1215/quotescrape/internal/config"
	"github.com/nao1215/quotescrape/internal/database"
	"github.com/nao1215/quotescrape/internal/report"
	"github.com/spf13/cobra"
)

// historyTimeFormat is the start time layout in the history listing.
const historyTimeFormat = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scrape runs",
		Long: `History lists the runs recorded in the history database, newest first.

Examples:
  # Show the last 20 runs
  quotescrape history

  # Show every run as JSON
  quotescrape history --limit 0 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the runs in JSON format")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(runs)
		return err
	}
	printHistory(out, runs)
	return nil
}

// printHistory writes runs as an aligned table.
func printHistory(out io.Writer, runs []database.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet. Use 'quotescrape scrape' to record one.")
		return
	}

	fmt.Fprintf(out, "Run history (%d runs):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-19s  %-9s  %5s  %6s  %7s  %s\n",
		"ID", "Started", "Status", "Pages", "Quotes", "Authors", "Duration")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-19s  %-9s  %5d  %6d  %7d  %s\n",
			r.ID,
			r.StartedAt.Local().Format(historyTimeFormat),
			r.Status,
			r.PagesCrawled,
			r.Quotes,
			r.Authors,
			r.Duration().Round(time.Millisecond),
		)
		if r.Error != "" {
			fmt.Fprintf(out, "          error: %s\n", r.Error)
		}
	}
}
