package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/quotescrape/internal/model"
)

// MarkdownWriter outputs run summaries and diffs in Markdown.
type MarkdownWriter struct {
	baseWriter

	// topTags is the number of tags in the chart and table.
	topTags int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		topTags:    defaultTopTags,
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeStatus(md, run)
	w.writeTags(md, run)
	w.writeAuthors(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run property table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Quote Scrape Report")
	md.PlainText("")

	rows := [][]string{
		{"Listing URL", "`" + run.ListingURL + "`"},
		{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Duration", run.Duration().Round(time.Millisecond).String()},
		{"Pages Crawled", strconv.Itoa(run.PagesCrawled)},
		{"Quotes", strconv.Itoa(len(run.Quotes))},
		{"Unique Authors", strconv.Itoa(len(run.AuthorLinks))},
		{"Authors Fetched", strconv.Itoa(len(run.Authors))},
		{"Status", statusText(run)},
	}
	if run.ID != 0 {
		rows = append([][]string{{"Run ID", strconv.FormatInt(run.ID, 10)}}, rows...)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusText returns the status cell of the property table.
func statusText(run *model.Run) string {
	switch run.Status {
	case model.RunStatusSucceeded:
		return "✅ Complete"
	case model.RunStatusFailed:
		return "❌ Failed - " + run.ErrorMessage
	default:
		return string(run.Status)
	}
}

// writeStatus writes an alert describing the outcome.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, run *model.Run) {
	switch {
	case run.Status == model.RunStatusFailed && run.QuotesFile != "":
		md.Warningf("The author phase failed; only %s was written.", run.QuotesFile)
	case run.Status == model.RunStatusFailed:
		md.Cautionf("The crawl failed and no output was written: %s", run.ErrorMessage)
	case len(run.Quotes) == 0:
		md.Importantf("The crawl finished but found no quotes on %d page(s).", run.PagesCrawled)
	default:
		md.Tip("All quotes and authors were written.")
	}
	md.PlainText("")
}

// writeTags writes the tag table and a pie chart of the most used tags.
func (w *MarkdownWriter) writeTags(md *markdown.Markdown, run *model.Run) {
	tags := TopTags(run.Quotes, w.topTags)

	md.H2("Top Tags")
	md.PlainText("")

	if len(tags) == 0 {
		md.PlainText("No tagged quotes.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(tags))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Quotes per Tag"),
		piechart.WithShowData(true),
	)
	for i, t := range tags {
		rows[i] = []string{t.Label(), "`" + t.Tag + "`", strconv.Itoa(t.Count)}
		chart.LabelAndIntValue(t.Label(), uint64(t.Count)) //nolint:gosec // counts are never negative
	}

	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Slug", "Quotes"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAuthors writes a table of fetched authors.
func (w *MarkdownWriter) writeAuthors(md *markdown.Markdown, run *model.Run) {
	md.H2("Authors")
	md.PlainText("")

	if len(run.Authors) == 0 {
		md.PlainText("No authors fetched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Authors))
	for i, a := range run.Authors {
		rows[i] = []string{
			strings.TrimSpace(a.FullName),
			a.BornDate,
			a.BornLocation,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Born", "Location"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, a := range run.Authors {
		if a.Description != "" {
			md.Details(strings.TrimSpace(a.FullName), a.Description)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [quotescrape](https://github.com/nao1215/quotescrape)*")
}

// WriteDiff outputs a run comparison in Markdown format.
func (w *MarkdownWriter) WriteDiff(diff *model.RunDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(fmt.Sprintf("Run Comparison: #%d → #%d", diff.Previous.ID, diff.Current.ID))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", diff.Previous.StartedAt.Format("2006-01-02 15:04"), diff.Current.StartedAt.Format("2006-01-02 15:04"), "-"},
			{"Pages", strconv.Itoa(diff.Previous.PagesCrawled), strconv.Itoa(diff.Current.PagesCrawled), FormatDelta(diff.Current.PagesCrawled - diff.Previous.PagesCrawled)},
			{"Quotes", strconv.Itoa(diff.Previous.Quotes), strconv.Itoa(diff.Current.Quotes), FormatDelta(diff.Current.Quotes - diff.Previous.Quotes)},
			{"Authors", strconv.Itoa(diff.Previous.Authors), strconv.Itoa(diff.Current.Authors), FormatDelta(diff.Current.Authors - diff.Previous.Authors)},
		},
	})
	md.PlainText("")

	if !diff.HasChanges() {
		md.Note("No changes between the two runs.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	writeQuoteList(md, "New Quotes", diff.NewQuotes, "")
	writeQuoteList(md, "Removed Quotes", diff.RemovedQuotes, "~~")
	writeAuthorList(md, "New Authors", diff.NewAuthors)
	writeAuthorList(md, "Removed Authors", diff.RemovedAuthors)
	writeAuthorList(md, "Changed Authors", diff.ChangedAuthors)

	if len(diff.ChangedPages) > 0 {
		md.H2(fmt.Sprintf("Changed Pages (%d)", len(diff.ChangedPages)))
		md.PlainText("")
		md.BulletList(diff.ChangedPages...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d quotes and %d authors unchanged*", diff.UnchangedQuotes, diff.UnchangedAuthors)

	return len(md.String()), md.Build()
}

// writeQuoteList writes a section listing quotes, each wrapped in mark.
func writeQuoteList(md *markdown.Markdown, title string, quotes []model.Quote, mark string) {
	if len(quotes) == 0 {
		return
	}
	md.H2(fmt.Sprintf("%s (%d)", title, len(quotes)))
	md.PlainText("")
	items := make([]string, len(quotes))
	for i, q := range quotes {
		items[i] = mark + q.Text + " *" + q.Author + "*" + mark
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeAuthorList writes a section listing author names.
func writeAuthorList(md *markdown.Markdown, title string, authors []model.Author) {
	if len(authors) == 0 {
		return
	}
	md.H2(fmt.Sprintf("%s (%d)", title, len(authors)))
	md.PlainText("")
	items := make([]string, len(authors))
	for i, a := range authors {
		items[i] = strings.TrimSpace(a.FullName)
	}
	md.BulletList(items...)
	md.PlainText("")
}
