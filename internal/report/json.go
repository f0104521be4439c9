package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/quotescrape/internal/model"
)

// OutputIndent is the per-level indentation of the output files.
const OutputIndent = " "

// JSONWriter outputs run records in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation for each level.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.WriteValue(run)
}

// WriteValue outputs any value in JSON format followed by a newline.
func (w *JSONWriter) WriteValue(v any) (int, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if w.indent {
		encoder.SetIndent(w.indentPrefix, w.indentString)
	}
	if err := encoder.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// JSONFileWriter writes the quotes.json and authors.json output files.
//
// The encoding is fixed so that two runs over the same site produce
// byte-identical files: UTF-8, one space of indentation per level, no
// escaping of non-ASCII or HTML characters and no trailing newline.
// U+2028 and U+2029 are still written as \u2028 and \u2029, and invalid
// UTF-8 bytes become \ufffd.
type JSONFileWriter struct {
	// perm is the mode used when a file is created.
	perm os.FileMode
}

// NewJSONFileWriter creates a JSONFileWriter.
func NewJSONFileWriter() *JSONFileWriter {
	return &JSONFileWriter{perm: 0o644}
}

// Encode returns the output encoding of v.
func (w *JSONFileWriter) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", OutputIndent)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteFile encodes v and writes it to path, replacing any existing file.
func (w *JSONFileWriter) WriteFile(path string, v any) error {
	data, err := w.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, w.perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteQuotes writes quotes to path. A nil slice is written as [].
func (w *JSONFileWriter) WriteQuotes(path string, quotes []model.Quote) error {
	if quotes == nil {
		quotes = make([]model.Quote, 0)
	}
	return w.WriteFile(path, quotes)
}

// WriteAuthors writes authors to path. A nil slice is written as [].
func (w *JSONFileWriter) WriteAuthors(path string, authors []model.Author) error {
	if authors == nil {
		authors = make([]model.Author, 0)
	}
	return w.WriteFile(path, authors)
}
