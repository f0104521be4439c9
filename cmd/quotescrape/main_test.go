package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testSite serves a small copy of the quotes site.
type testSite struct {
	mu      sync.Mutex
	pages   map[string]string
	authors map[string]string
	fail    map[string]bool
}

func newTestSite() *testSite {
	return &testSite{
		pages: map[string]string{
			"/page/1": listingPage(true,
				[3]string{"“The world as we have created it.”", "Albert Einstein", "/author/Albert-Einstein"},
				[3]string{"“It is our choices, Harry.”", "J.K. Rowling", "/author/J-K-Rowling"},
			),
			"/page/2": listingPage(false,
				[3]string{"“Imperfection is beauty.”", "Albert Einstein", "/author/Albert-Einstein"},
			),
		},
		authors: map[string]string{
			"/author/Albert-Einstein": authorPage("Albert Einstein", "March 14, 1879", "in Ulm, Germany"),
			"/author/J-K-Rowling":     authorPage("J.K. Rowling", "July 31, 1965", "in Yate, England"),
		},
		fail: map[string]bool{},
	}
}

func (s *testSite) set(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.HasPrefix(path, "/author/") {
		s.authors[path] = body
		return
	}
	s.pages[path] = body
}

func (s *testSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body, ok := s.pages[r.URL.Path]
	if !ok {
		body, ok = s.authors[r.URL.Path]
	}
	fail := s.fail[r.URL.Path]
	s.mu.Unlock()

	if !ok || fail {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func listingPage(hasNext bool, quotes ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	for _, q := range quotes {
		fmt.Fprintf(&b, `<div class="quote"><span class="text">%s</span>`, q[0])
		fmt.Fprintf(&b, `<span>by <small class="author">%s</small> <a href="%s">(about)</a></span>`, q[1], q[2])
		b.WriteString(`<div class="tags">Tags: <a class="tag" href="/tag/life/">life</a></div></div>`)
	}
	if hasNext {
		b.WriteString(`<ul class="pager"><li class="next"><a href="/page/2/">Next</a></li></ul>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func authorPage(name, born, location string) string {
	return `<html><body><div class="author-details">
<h3 class="author-title">` + name + `</h3>
<p><span class="author-born-date">` + born + `</span> <span class="author-born-location">` + location + `</span></p>
<div class="author-description">
    A short biography.
</div></div></body></html>`
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// scrapeArgs returns scrape arguments pointing every path into dir.
func scrapeArgs(t *testing.T, srv *httptest.Server, dir string, extra ...string) []string {
	t.Helper()

	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		if err := os.WriteFile(cfgPath, []byte("timeout: 5s\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	args := []string{
		"scrape",
		"--config", cfgPath,
		"--db-dir", filepath.Join(dir, "db"),
		"--listing-url", srv.URL + "/page/",
		"--author-base-url", srv.URL,
		"--quotes-output", filepath.Join(dir, "quotes.json"),
		"--authors-output", filepath.Join(dir, "authors.json"),
	}
	return append(args, extra...)
}
