// Package report writes scrape results and run summaries.
//
// Output files:
//   - JSONFileWriter: quotes.json and authors.json, indented with one space
//     per level and without ASCII or HTML escaping
//
// Run summaries implement Writer:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: the run record as JSON
//   - MarkdownWriter: a Markdown document with tables and a tag chart
//
// SimpleWriter and MarkdownWriter also render run diffs.
package report
