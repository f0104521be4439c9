package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/quotescrape/internal/model"
)

// defaultTopTags is how many tags the summaries list.
const defaultTopTags = 10

// lineWidth is the width of the section rules.
const lineWidth = 70

// SimpleWriter outputs a human-readable run summary.
type SimpleWriter struct {
	baseWriter

	// verbose lists every author in addition to the counters.
	verbose bool

	// topTags is the number of tags listed.
	topTags int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithTopTags sets how many tags are listed. 0 hides the section.
func WithTopTags(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.topTags = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		topTags:    defaultTopTags,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeTags(&sb, run)
	w.writeAuthors(&sb, run)
	writeRule(&sb, "=")

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run counters and status.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	sb.WriteString("                         QUOTESCRAPE RUN\n")
	writeRule(sb, "=")
	sb.WriteString("\n")

	if run.ID != 0 {
		fmt.Fprintf(sb, "Run ID:         %d\n", run.ID)
	}
	fmt.Fprintf(sb, "Listing URL:    %s\n", run.ListingURL)
	fmt.Fprintf(sb, "Started:        %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:       %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Pages Crawled:  %d\n", run.PagesCrawled)
	fmt.Fprintf(sb, "Quotes:         %d\n", len(run.Quotes))
	fmt.Fprintf(sb, "Author Links:   %d\n", len(run.AuthorLinks))
	fmt.Fprintf(sb, "Authors:        %d\n", len(run.Authors))
	if run.QuotesFile != "" {
		fmt.Fprintf(sb, "Quotes File:    %s\n", run.QuotesFile)
	}
	if run.AuthorsFile != "" {
		fmt.Fprintf(sb, "Authors File:   %s\n", run.AuthorsFile)
	}

	switch run.Status {
	case model.RunStatusFailed:
		fmt.Fprintf(sb, "Status:         FAILED - %s\n", run.ErrorMessage)
	case model.RunStatusSucceeded:
		sb.WriteString("Status:         Complete\n")
	default:
		fmt.Fprintf(sb, "Status:         %s\n", run.Status)
	}
	sb.WriteString("\n")
}

// writeTags writes the most used tags.
func (w *SimpleWriter) writeTags(sb *strings.Builder, run *model.Run) {
	if w.topTags <= 0 || len(run.Quotes) == 0 {
		return
	}
	tags := TopTags(run.Quotes, w.topTags)
	if len(tags) == 0 {
		return
	}

	writeSection(sb, "TOP TAGS")
	for _, t := range tags {
		fmt.Fprintf(sb, "  %-24s %d\n", t.Label(), t.Count)
	}
	sb.WriteString("\n")
}

// writeAuthors lists the fetched authors in verbose mode.
func (w *SimpleWriter) writeAuthors(sb *strings.Builder, run *model.Run) {
	if !w.verbose || len(run.Authors) == 0 {
		return
	}

	writeSection(sb, "AUTHORS")
	for _, a := range run.Authors {
		fmt.Fprintf(sb, "  * %s\n", strings.TrimSpace(a.FullName))
		fmt.Fprintf(sb, "    Born: %s %s\n", a.BornDate, a.BornLocation)
	}
	sb.WriteString("\n")
}

// WriteDiff outputs a run comparison.
func (w *SimpleWriter) WriteDiff(diff *model.RunDiff) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run Comparison: #%d -> #%d\n", diff.Previous.ID, diff.Current.ID)
	writeRule(&sb, "=")

	fmt.Fprintf(&sb, "\nPrevious run: %s\n", diff.Previous.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Current run:  %s\n", diff.Current.StartedAt.Format("2006-01-02 15:04:05"))

	sb.WriteString("\nSummary:\n")
	fmt.Fprintf(&sb, "  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	for _, row := range []struct {
		name       string
		prev, curr int
	}{
		{"Pages", diff.Previous.PagesCrawled, diff.Current.PagesCrawled},
		{"Quotes", diff.Previous.Quotes, diff.Current.Quotes},
		{"Authors", diff.Previous.Authors, diff.Current.Authors},
	} {
		fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", row.name, row.prev, row.curr, FormatDelta(row.curr-row.prev))
	}

	if !diff.HasChanges() {
		sb.WriteString("\nNo changes.\n")
		return io.WriteString(w.output, sb.String())
	}

	if len(diff.NewQuotes) > 0 {
		fmt.Fprintf(&sb, "\nNew Quotes (%d):\n", len(diff.NewQuotes))
		for _, q := range diff.NewQuotes {
			fmt.Fprintf(&sb, "  [+] %s - %s\n", q.Text, q.Author)
		}
	}
	if len(diff.RemovedQuotes) > 0 {
		fmt.Fprintf(&sb, "\nRemoved Quotes (%d):\n", len(diff.RemovedQuotes))
		for _, q := range diff.RemovedQuotes {
			fmt.Fprintf(&sb, "  [-] %s - %s\n", q.Text, q.Author)
		}
	}
	if len(diff.NewAuthors) > 0 {
		fmt.Fprintf(&sb, "\nNew Authors (%d):\n", len(diff.NewAuthors))
		for _, a := range diff.NewAuthors {
			fmt.Fprintf(&sb, "  [+] %s\n", strings.TrimSpace(a.FullName))
		}
	}
	if len(diff.RemovedAuthors) > 0 {
		fmt.Fprintf(&sb, "\nRemoved Authors (%d):\n", len(diff.RemovedAuthors))
		for _, a := range diff.RemovedAuthors {
			fmt.Fprintf(&sb, "  [-] %s\n", strings.TrimSpace(a.FullName))
		}
	}
	if len(diff.ChangedAuthors) > 0 {
		fmt.Fprintf(&sb, "\nChanged Authors (%d):\n", len(diff.ChangedAuthors))
		for _, a := range diff.ChangedAuthors {
			fmt.Fprintf(&sb, "  [~] %s\n", strings.TrimSpace(a.FullName))
		}
	}
	if len(diff.ChangedPages) > 0 {
		fmt.Fprintf(&sb, "\nChanged Pages (%d):\n", len(diff.ChangedPages))
		for _, p := range diff.ChangedPages {
			fmt.Fprintf(&sb, "  [~] %s\n", p)
		}
	}

	fmt.Fprintf(&sb, "\nUnchanged: %d quotes, %d authors\n", diff.UnchangedQuotes, diff.UnchangedAuthors)

	return io.WriteString(w.output, sb.String())
}

// FormatDelta formats a numeric delta with sign for display.
func FormatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, lineWidth))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	writeRule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	writeRule(sb, "-")
	sb.WriteString("\n")
}
