package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nao1215/quotescrape/internal/fetch"
	"github.com/nao1215/quotescrape/internal/model"
)

// DefaultListingURL is the base the page number is appended to.
const DefaultListingURL = "https://quotes.toscrape.com/page/"

// Fetcher downloads a page. *fetch.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Spider walks the listing pages in order and collects quotes and the
// unique author links found on them.
//
// A Spider is meant for a single crawl. Links, Visits and Stats may be called
// from other goroutines while Crawl runs.
type Spider struct {
	// fetcher downloads listing pages.
	fetcher Fetcher

	// listingURL is the prefix the page number is appended to.
	listingURL string

	// maxPages stops the crawl after this many pages. 0 means no limit.
	maxPages int

	// progress receives one "Fetching" line per page.
	progress io.Writer

	logger *slog.Logger

	// mutex protects the fields below.
	mutex     sync.Mutex
	links     *model.AuthorLinkSet
	visits    []model.PageVisit
	pageCount int
	quotes    int
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithListingURL sets the listing base URL, e.g. "https://example.com/page/".
func WithListingURL(u string) SpiderOption {
	return func(s *Spider) {
		s.listingURL = u
	}
}

// WithMaxPages stops the crawl after n pages even if more are advertised.
// 0 disables the limit.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithProgress sets where progress lines are written.
func WithProgress(w io.Writer) SpiderOption {
	return func(s *Spider) {
		s.progress = w
	}
}

// WithSpiderLogger sets the logger.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that downloads pages through fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:    fetcher,
		listingURL: DefaultListingURL,
		progress:   io.Discard,
		logger:     slog.Default(),
		links:      model.NewAuthorLinkSet(),
		visits:     make([]model.PageVisit, 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PageURL returns the URL of listing page n.
func (s *Spider) PageURL(n int) string {
	return s.listingURL + strconv.Itoa(n)
}

// Crawl fetches listing pages starting at startPage and keeps going while
// each page advertises a next page. It returns all quotes in page order.
//
// Any fetch or parse failure aborts the crawl and no quotes are returned.
func (s *Spider) Crawl(ctx context.Context, startPage int) ([]model.Quote, error) {
	quotes := make([]model.Quote, 0)

	for page := startPage; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := s.PageURL(page)
		fmt.Fprintf(s.progress, "Fetching    %s\n", pageURL) //nolint:errcheck // progress output is best effort
		s.logger.Debug("fetching listing page", "page", page, "url", pageURL)

		resp, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing page %d: %w", page, err)
		}

		listing, err := ParseListing(pageURL, resp.Body)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, listing.Quotes...)
		s.record(resp, listing)

		if !listing.HasNext {
			s.logger.Debug("last listing page reached", "page", page)
			break
		}

		if s.maxPages > 0 && page-startPage+1 >= s.maxPages {
			s.logger.Warn("page limit reached, stopping crawl",
				"max_pages", s.maxPages,
				"last_page", page,
			)
			break
		}
	}

	return quotes, nil
}

// record stores the visit and adds newly seen author links.
func (s *Spider) record(resp *fetch.Response, listing *ListingPage) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pageCount++
	s.quotes += len(listing.Quotes)
	s.visits = append(s.visits, model.NewPageVisit(resp.URL, model.PageKindListing, resp.StatusCode, resp.Body))

	for _, link := range listing.AuthorLinks {
		if s.links.Add(link) {
			s.logger.Debug("new author link", "link", link)
		}
	}
}

// Links returns a snapshot of the unique author links seen so far.
func (s *Spider) Links() []model.AuthorLink {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.links.Snapshot()
}

// Visits returns a copy of the listing page visits.
func (s *Spider) Visits() []model.PageVisit {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]model.PageVisit, len(s.visits))
	copy(out, s.visits)
	return out
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		PagesVisited:  s.pageCount,
		QuotesFound:   s.quotes,
		UniqueAuthors: s.links.Len(),
	}
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// PagesVisited is the number of listing pages fetched and parsed.
	PagesVisited int

	// QuotesFound is the number of quotes extracted.
	QuotesFound int

	// UniqueAuthors is the size of the author link set.
	UniqueAuthors int
}
