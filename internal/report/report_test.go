package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/quotescrape/internal/model"
)

// createTestRun creates a finished run with sample data for testing.
func createTestRun() *model.Run {
	run := model.NewRun("https://quotes.toscrape.com/page/")
	run.ID = 7
	run.PagesCrawled = 2
	run.Quotes = []model.Quote{
		model.NewQuote("“The world as we have created it is a process of our thinking.”", "Albert Einstein", []string{"change", "deep-thoughts"}),
		model.NewQuote("“It is our choices, Harry, that show what we truly are.”", "J.K. Rowling", []string{"choices", "change"}),
		model.NewQuote("“A day without sunshine is like, you know, night.”", "Steve Martin", nil),
	}
	run.AuthorLinks = []string{"/author/Albert-Einstein", "/author/J-K-Rowling", "/author/Steve-Martin"}
	run.Authors = []model.Author{
		{FullName: "Albert Einstein\n    ", BornDate: "March 14, 1879", BornLocation: "in Ulm, Germany", Description: "In 1879, Albert Einstein was born in Ulm."},
	}
	run.QuotesFile = "quotes.json"
	run.AuthorsFile = "authors.json"
	run.Finish(nil)
	return run
}

func TestJSONFileWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one-space indentation without escaping", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "quotes.json")
		quotes := []model.Quote{
			model.NewQuote("“Café” <b>&</b>", "Author", []string{"a"}),
			model.NewQuote("plain", "Other", nil),
		}

		if err := NewJSONFileWriter().WriteQuotes(path, quotes); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		want := `[
 {
  "tags": [
   "a"
  ],
  "author": "Author",
  "quote": "“Café” <b>&</b>"
 },
 {
  "tags": [],
  "author": "Other",
  "quote": "plain"
 }
]`
		if string(data) != want {
			t.Errorf("unexpected output:\n%s\nwant:\n%s", data, want)
		}
	})

	t.Run("escapes line separators and invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		data, err := NewJSONFileWriter().Encode([]string{"a\u2028b\u2029c", "x\xffy", "é"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `[
 "a\u2028b\u2029c",
 "x\ufffdy",
 "é"
]`
		if string(data) != want {
			t.Errorf("unexpected output:\n%s\nwant:\n%s", data, want)
		}
	})

	t.Run("identical input produces identical bytes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := filepath.Join(dir, "first.json")
		second := filepath.Join(dir, "second.json")
		authors := []model.Author{
			{FullName: "Jane Austen\n    ", BornDate: "December 16, 1775", BornLocation: "in Steventon Rectory", Description: "bio"},
		}

		w := NewJSONFileWriter()
		if err := w.WriteAuthors(first, authors); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteAuthors(second, authors); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		a, _ := os.ReadFile(first)  //nolint:errcheck
		b, _ := os.ReadFile(second) //nolint:errcheck
		if !bytes.Equal(a, b) {
			t.Error("expected byte-identical output")
		}
		if !strings.Contains(string(a), `"fullname": "Jane Austen\n    "`) {
			t.Errorf("expected untrimmed name in output, got %s", a)
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "authors.json")
		if err := os.WriteFile(path, []byte(strings.Repeat("x", 1000)), 0o600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if err := NewJSONFileWriter().WriteAuthors(path, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, _ := os.ReadFile(path) //nolint:errcheck
		if string(data) != "[]" {
			t.Errorf("expected [], got %q", data)
		}
	})

	t.Run("fails on missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "quotes.json")
		err := NewJSONFileWriter().WriteQuotes(path, nil)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Run
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ID != 7 || len(decoded.Quotes) != 3 {
			t.Errorf("unexpected decoded run: %+v", decoded)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single-line output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteValue(map[string]int{"a": 1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "{\n  \"a\": 1\n}\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestTopTags(t *testing.T) {
	t.Parallel()

	tags := TopTags(createTestRun().Quotes, 2)
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Tag != "change" || tags[0].Count != 2 {
		t.Errorf("expected change=2 first, got %+v", tags[0])
	}
	// choices and deep-thoughts tie at 1; alphabetical order wins
	if tags[1].Tag != "choices" {
		t.Errorf("expected choices second, got %+v", tags[1])
	}

	if got := (TagCount{Tag: "deep-thoughts"}).Label(); got != "Deep Thoughts" {
		t.Errorf("expected 'Deep Thoughts', got %q", got)
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes counters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"QUOTESCRAPE RUN", "Run ID:         7", "Quotes:         3", "Status:         Complete", "TOP TAGS", "Change"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "AUTHORS\n") {
			t.Error("expected authors section only in verbose mode")
		}
	})

	t.Run("verbose lists authors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true), WithTopTags(0)).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "* Albert Einstein\n") {
			t.Error("expected trimmed author name")
		}
		if strings.Contains(output, "TOP TAGS") {
			t.Error("expected tags section to be hidden")
		}
	})

	t.Run("failed run", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("http://example.com/page/")
		run.Finish(errors.New("fetch failed"))

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "FAILED - fetch failed") {
			t.Errorf("expected failure status, got:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# Quote Scrape Report", "## Top Tags", "Deep Thoughts", "```mermaid", "## Authors", "March 14, 1879", "[!TIP]"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("failed author phase warns", func(t *testing.T) {
		t.Parallel()

		run := createTestRun()
		run.AuthorsFile = ""
		run.Finish(errors.New("boom"))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Errorf("expected warning alert, got:\n%s", buf.String())
		}
	})
}

func TestWriteDiff(t *testing.T) {
	t.Parallel()

	previous := createTestRun()
	previous.ID = 1
	current := createTestRun()
	current.ID = 2
	current.Quotes = append(current.Quotes, model.NewQuote("new quote", "Someone", nil))
	current.Authors = append(current.Authors, model.Author{FullName: "Someone\n    "})

	diff := model.CompareRuns(previous, current)

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(diff); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"#1 -> #2", "[+] new quote - Someone", "[+] Someone", "+1"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDiff(diff); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"# Run Comparison", "## New Quotes (1)", "## New Authors (1)"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no changes", func(t *testing.T) {
		t.Parallel()

		same := model.CompareRuns(previous, previous)
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(same); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No changes.") {
			t.Errorf("expected no changes message, got:\n%s", buf.String())
		}
	})
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := map[int]string{3: "+3", 0: "0", -2: "-2"}
	for in, want := range tests {
		if got := FormatDelta(in); got != want {
			t.Errorf("FormatDelta(%d) = %q, want %q", in, got, want)
		}
	}
}

// failingWriter always returns an error.
type failingWriter struct{}

func (failingWriter) Write(*model.Run) (int, error) {
	return 0, errors.New("boom")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		var text, md bytes.Buffer
		n, err := NewMultiWriter(NewSimpleWriter(&text), NewMarkdownWriter(&md)).Write(createTestRun())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n <= text.Len() {
			t.Errorf("n = %d, want the sum of both writers", n)
		}
		if !strings.Contains(text.String(), "QUOTESCRAPE RUN") || !strings.Contains(md.String(), "# Quote Scrape Report") {
			t.Error("expected both summaries")
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		if _, err := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after)).Write(createTestRun()); err == nil {
			t.Fatal("expected error")
		}
		if after.Len() != 0 {
			t.Error("writers after a failure should not run")
		}
	})
}
