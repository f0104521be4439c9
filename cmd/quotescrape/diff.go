package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/quotescrape/internal/database"
	"github.com/nao1215/quotescrape/internal/model"
	"github.com/nao1215/quotescrape/internal/report"
	"github.com/spf13/cobra"
)

// ErrNotEnoughRuns is returned when fewer than two successful runs exist.
var ErrNotEnoughRuns = errors.New("need at least two successful runs to compare (run 'quotescrape scrape' again)")

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the latest run with a previous one",
		Long: `Diff compares the quotes and authors of the latest successful run with
the previous successful run, or with a specific run given by ID.

Quotes are matched by author and text, authors by full name. An author whose
birth date, birth place or description changed is reported as changed.

Examples:
  # Compare the two latest successful runs
  quotescrape diff

  # Compare the latest run with run 3
  quotescrape diff --with-run-id 3

  # Markdown output
  quotescrape diff --markdown`,
		Args: cobra.NoArgs,
		RunE: runDiffCmd,
	}

	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use 'quotescrape history' to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

func runDiffCmd(cmd *cobra.Command, _ []string) error {
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	previous, current, err := selectRuns(cmd, db, withRunID)
	if err != nil {
		return err
	}

	diff := model.CompareRuns(previous, current)
	out := cmd.OutOrStdout()

	switch {
	case jsonOutput:
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(diff)
	case markdownOutput:
		_, err = report.NewMarkdownWriter(out).WriteDiff(diff)
	default:
		_, err = report.NewSimpleWriter(out).WriteDiff(diff)
	}
	return err
}

// selectRuns returns the runs to compare, older first.
func selectRuns(cmd *cobra.Command, db *database.HistoryDB, withRunID int64) (*model.Run, *model.Run, error) {
	ctx := cmd.Context()

	if withRunID > 0 {
		latest, err := db.GetLatestRuns(ctx, 1, true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load latest run: %w", err)
		}
		if len(latest) == 0 {
			return nil, nil, ErrNotEnoughRuns
		}
		previous, err := db.GetRun(ctx, withRunID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load run %d: %w", withRunID, err)
		}
		if previous == nil {
			return nil, nil, fmt.Errorf("run %d not found", withRunID)
		}
		if previous.ID == latest[0].ID {
			return nil, nil, fmt.Errorf("run %d is the latest run; choose an older run", withRunID)
		}
		return previous, latest[0], nil
	}

	runs, err := db.GetLatestRuns(ctx, 2, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) < 2 {
		return nil, nil, ErrNotEnoughRuns
	}
	// GetLatestRuns returns newest first.
	return runs[1], runs[0], nil
}
