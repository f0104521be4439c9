package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/quotescrape/internal/fetch"
	"github.com/nao1215/quotescrape/internal/model"
)

const testPage1 = `<html><body>
<div class="quote"><span class="text">“First”</span><span>by <small class="author">Albert Einstein</small>
<a href="/author/Albert-Einstein">(about)</a></span>
<div class="tags">Tags: <a class="tag" href="/tag/change/">change</a></div></div>
<ul class="pager"><li class="next"><a href="/page/2/">Next</a></li></ul>
</body></html>`

const testPage2 = `<html><body>
<div class="quote"><span class="text">“Second”</span><span>by <small class="author">Albert Einstein</small>
<a href="/author/Albert-Einstein">(about)</a></span>
<div class="tags">Tags: </div></div>
</body></html>`

const testAuthor = `<html><body><div class="author-details">
<h3 class="author-title">Albert Einstein
    </h3>
<p><span class="author-born-date">March 14, 1879</span> <span class="author-born-location">in Ulm, Germany</span></p>
<div class="author-description">
        Physicist.
    </div></div></body></html>`

// newTestSite serves two listing pages and one author. authorStatus
// overrides the author page status when non-zero.
func newTestSite(t *testing.T, authorStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body)) //nolint:errcheck
		}
	}
	mux.HandleFunc("/page/1", serve(testPage1))
	mux.HandleFunc("/page/2", serve(testPage2))
	mux.HandleFunc("/author/Albert-Einstein", func(w http.ResponseWriter, r *http.Request) {
		if authorStatus != 0 {
			http.Error(w, "nope", authorStatus)
			return
		}
		serve(testAuthor)(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newScrapePipeline(t *testing.T, server *httptest.Server, dir string, progress *bytes.Buffer) *Pipeline {
	t.Helper()

	client, err := fetch.NewClient(fetch.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return ScrapePipeline(client, nil,
		WithListingURL(server.URL+"/page/"),
		WithAuthorBaseURL(server.URL),
		WithOutputs(filepath.Join(dir, "quotes.json"), filepath.Join(dir, "authors.json")),
		WithProgress(progress),
	)
}

func TestScrapePipeline(t *testing.T) {
	t.Parallel()

	t.Run("has four steps in order", func(t *testing.T) {
		t.Parallel()

		p := ScrapePipeline(nil, nil)
		want := []string{StepCrawlQuotes, StepWriteQuotes, StepFetchAuthors, StepWriteAuthors}
		names := p.StepNames()
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("step %d: got %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("writes both files", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t, 0)
		dir := t.TempDir()
		var progress bytes.Buffer

		run := model.NewRun(server.URL + "/page/")
		if err := newScrapePipeline(t, server, dir, &progress).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var quotes []model.Quote
		readJSON(t, filepath.Join(dir, "quotes.json"), &quotes)
		if len(quotes) != 2 || quotes[0].Text != "“First”" || quotes[1].Text != "“Second”" {
			t.Errorf("unexpected quotes: %+v", quotes)
		}
		if quotes[1].Tags == nil || len(quotes[1].Tags) != 0 {
			t.Errorf("expected empty tags, got %#v", quotes[1].Tags)
		}

		var authors []model.Author
		readJSON(t, filepath.Join(dir, "authors.json"), &authors)
		if len(authors) != 1 {
			t.Fatalf("expected 1 author, got %d", len(authors))
		}
		if authors[0].FullName != "Albert Einstein\n    " || authors[0].Description != "Physicist." {
			t.Errorf("unexpected author: %+v", authors[0])
		}

		if run.PagesCrawled != 2 || len(run.AuthorLinks) != 1 {
			t.Errorf("unexpected run counters: pages=%d links=%v", run.PagesCrawled, run.AuthorLinks)
		}
		if len(run.Visits) != 3 {
			t.Errorf("expected 3 visits, got %d", len(run.Visits))
		}
		if run.QuotesFile == "" || run.AuthorsFile == "" {
			t.Error("expected output paths on run")
		}
		wantProgress := QuotesHeader + "\n" +
			"Fetching    " + server.URL + "/page/1\n" +
			"Fetching    " + server.URL + "/page/2\n" +
			AuthorsHeader + "\n" +
			"Fetching    " + server.URL + "/author/Albert-Einstein\n"
		if progress.String() != wantProgress {
			t.Errorf("progress = %q, want %q", progress.String(), wantProgress)
		}
	})

	t.Run("author failure keeps quotes only", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t, http.StatusInternalServerError)
		dir := t.TempDir()

		run := model.NewRun(server.URL + "/page/")
		err := newScrapePipeline(t, server, dir, &bytes.Buffer{}).Execute(context.Background(), run)
		if !errors.Is(err, fetch.ErrBadStatus) {
			t.Fatalf("expected ErrBadStatus, got %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "quotes.json")); err != nil {
			t.Errorf("expected quotes.json to exist: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "authors.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected authors.json to be absent, got %v", err)
		}
		if len(run.Authors) != 0 {
			t.Errorf("expected no authors on run, got %d", len(run.Authors))
		}
	})

	t.Run("crawl failure writes nothing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()
		dir := t.TempDir()

		run := model.NewRun(server.URL + "/page/")
		err := newScrapePipeline(t, server, dir, &bytes.Buffer{}).Execute(context.Background(), run)

		var fetchErr *fetch.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *fetch.FetchError, got %v", err)
		}
		entries, _ := os.ReadDir(dir) //nolint:errcheck
		if len(entries) != 0 {
			t.Errorf("expected no output files, got %d", len(entries))
		}
		if len(run.Quotes) != 0 {
			t.Errorf("expected no quotes on run, got %d", len(run.Quotes))
		}
	})
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
}
