package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/quotescrape/internal/model"
)

// DefaultAuthorBaseURL is the origin author links are appended to.
const DefaultAuthorBaseURL = "http://quotes.toscrape.com"

// AuthorFetcher downloads author detail pages.
type AuthorFetcher struct {
	fetcher Fetcher

	// baseURL is concatenated with each link.
	baseURL string

	// concurrency caps in-flight fetches. 0 means one goroutine per link.
	concurrency int

	// progress receives one line per author page fetched.
	progress io.Writer
	logger   *slog.Logger

	mutex  sync.Mutex
	visits []model.PageVisit
}

// AuthorFetcherOption configures an AuthorFetcher.
type AuthorFetcherOption func(*AuthorFetcher)

// WithAuthorBaseURL sets the origin author links are resolved against.
func WithAuthorBaseURL(u string) AuthorFetcherOption {
	return func(f *AuthorFetcher) {
		f.baseURL = u
	}
}

// WithConcurrency limits the number of concurrent fetches. 0 or less
// launches every fetch at once.
func WithConcurrency(n int) AuthorFetcherOption {
	return func(f *AuthorFetcher) {
		f.concurrency = n
	}
}

// WithFetcherProgress sets where progress lines are written.
func WithFetcherProgress(w io.Writer) AuthorFetcherOption {
	return func(f *AuthorFetcher) {
		f.progress = w
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) AuthorFetcherOption {
	return func(f *AuthorFetcher) {
		f.logger = logger
	}
}

// NewAuthorFetcher creates an AuthorFetcher that downloads pages through fetcher.
func NewAuthorFetcher(fetcher Fetcher, opts ...AuthorFetcherOption) *AuthorFetcher {
	f := &AuthorFetcher{
		fetcher: fetcher,
		baseURL:  DefaultAuthorBaseURL,
		progress: io.Discard,
		logger:   slog.Default(),
		visits:   make([]model.PageVisit, 0),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// AuthorURL returns the absolute URL of an author link.
func (f *AuthorFetcher) AuthorURL(link model.AuthorLink) string {
	return f.baseURL + link
}

// FetchAuthor downloads and parses a single author page.
func (f *AuthorFetcher) FetchAuthor(ctx context.Context, link model.AuthorLink) (model.Author, error) {
	authorURL := f.AuthorURL(link)
	f.progressLine(authorURL)
	f.logger.Debug("fetching author page", "url", authorURL)

	resp, err := f.fetcher.Get(ctx, authorURL)
	if err != nil {
		return model.Author{}, fmt.Errorf("failed to fetch author %s: %w", link, err)
	}

	author, err := ParseAuthor(authorURL, resp.Body)
	if err != nil {
		return model.Author{}, err
	}

	f.mutex.Lock()
	f.visits = append(f.visits, model.NewPageVisit(resp.URL, model.PageKindAuthor, resp.StatusCode, resp.Body))
	f.mutex.Unlock()

	return author, nil
}

// progressLine writes one line at a time so concurrent fetches never
// interleave within a line.
func (f *AuthorFetcher) progressLine(authorURL string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	fmt.Fprintf(f.progress, "Fetching    %s\n", authorURL) //nolint:errcheck // progress output is best effort
}

// FetchAll fetches every link concurrently and returns the authors in the
// order the fetches completed.
//
// If any fetch fails the remaining ones are cancelled and only the first
// error is returned, with no authors.
func (f *AuthorFetcher) FetchAll(ctx context.Context, links []model.AuthorLink) ([]model.Author, error) {
	g, gctx := errgroup.WithContext(ctx)
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}

	var mutex sync.Mutex
	authors := make([]model.Author, 0, len(links))

	for _, link := range links {
		g.Go(func() error {
			author, err := f.FetchAuthor(gctx, link)
			if err != nil {
				return err
			}
			mutex.Lock()
			authors = append(authors, author)
			mutex.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.logger.Debug("author fetch failed", "error", err)
		return nil, err
	}

	f.logger.Debug("fetched all authors", "count", len(authors))
	return authors, nil
}

// Visits returns a copy of the author page visits.
func (f *AuthorFetcher) Visits() []model.PageVisit {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]model.PageVisit, len(f.visits))
	copy(out, f.visits)
	return out
}
