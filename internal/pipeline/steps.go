package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/quotescrape/internal/config"
	"github.com/nao1215/quotescrape/internal/crawler"
	"github.com/nao1215/quotescrape/internal/model"
	"github.com/nao1215/quotescrape/internal/report"
)

// Progress headers printed before each phase.
const (
	QuotesHeader  = "Quotes scraping:"
	AuthorsHeader = "Authors scraping:"
)

// Step names.
const (
	StepCrawlQuotes  = "crawl_quotes"
	StepWriteQuotes  = "write_quotes"
	StepFetchAuthors = "fetch_authors"
	StepWriteAuthors = "write_authors"
)

// CrawlStep walks the listing pages and stores the quotes, the author link
// snapshot and the page visits on the run.
type CrawlStep struct {
	spider    *crawler.Spider
	startPage int
	progress  io.Writer
}

// NewCrawlStep creates a CrawlStep that crawls from page 1 and prints
// QuotesHeader to progress first.
func NewCrawlStep(spider *crawler.Spider, progress io.Writer) *CrawlStep {
	return &CrawlStep{spider: spider, startPage: 1, progress: progress}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return StepCrawlQuotes
}

// Do executes the crawl. On failure the run keeps the visit bookkeeping
// but no quotes.
func (s *CrawlStep) Do(ctx context.Context, run *model.Run) error {
	fmt.Fprintln(s.progress, QuotesHeader) //nolint:errcheck // progress output is best effort
	quotes, err := s.spider.Crawl(ctx, s.startPage)

	run.PagesCrawled = s.spider.Stats().PagesVisited
	run.AddVisits(s.spider.Visits()...)
	if err != nil {
		return err
	}

	run.Quotes = quotes
	run.AuthorLinks = s.spider.Links()
	return nil
}

// WriteQuotesStep writes run.Quotes to the quotes output file.
type WriteQuotesStep struct {
	writer *report.JSONFileWriter
	path   string
	logger *slog.Logger
}

// NewWriteQuotesStep creates a WriteQuotesStep writing to path.
func NewWriteQuotesStep(writer *report.JSONFileWriter, path string, logger *slog.Logger) *WriteQuotesStep {
	return &WriteQuotesStep{writer: writer, path: path, logger: logger}
}

// Name returns the step name.
func (s *WriteQuotesStep) Name() string {
	return StepWriteQuotes
}

// Do writes the file.
func (s *WriteQuotesStep) Do(_ context.Context, run *model.Run) error {
	if err := s.writer.WriteQuotes(s.path, run.Quotes); err != nil {
		return err
	}
	run.QuotesFile = s.path
	s.logger.Debug("wrote quotes", "path", s.path, "count", len(run.Quotes))
	return nil
}

// FetchAuthorsStep fetches every author in run.AuthorLinks.
type FetchAuthorsStep struct {
	fetcher  *crawler.AuthorFetcher
	progress io.Writer
}

// NewFetchAuthorsStep creates a FetchAuthorsStep that prints AuthorsHeader
// to progress first.
func NewFetchAuthorsStep(fetcher *crawler.AuthorFetcher, progress io.Writer) *FetchAuthorsStep {
	return &FetchAuthorsStep{fetcher: fetcher, progress: progress}
}

// Name returns the step name.
func (s *FetchAuthorsStep) Name() string {
	return StepFetchAuthors
}

// Do fetches the authors. Either all authors are stored or none.
func (s *FetchAuthorsStep) Do(ctx context.Context, run *model.Run) error {
	fmt.Fprintln(s.progress, AuthorsHeader) //nolint:errcheck // progress output is best effort
	authors, err := s.fetcher.FetchAll(ctx, run.AuthorLinks)
	run.AddVisits(s.fetcher.Visits()...)
	if err != nil {
		return err
	}
	run.Authors = authors
	return nil
}

// WriteAuthorsStep writes run.Authors to the authors output file.
type WriteAuthorsStep struct {
	writer *report.JSONFileWriter
	path   string
	logger *slog.Logger
}

// NewWriteAuthorsStep creates a WriteAuthorsStep writing to path.
func NewWriteAuthorsStep(writer *report.JSONFileWriter, path string, logger *slog.Logger) *WriteAuthorsStep {
	return &WriteAuthorsStep{writer: writer, path: path, logger: logger}
}

// Name returns the step name.
func (s *WriteAuthorsStep) Name() string {
	return StepWriteAuthors
}

// Do writes the file.
func (s *WriteAuthorsStep) Do(_ context.Context, run *model.Run) error {
	if err := s.writer.WriteAuthors(s.path, run.Authors); err != nil {
		return err
	}
	run.AuthorsFile = s.path
	s.logger.Debug("wrote authors", "path", s.path, "count", len(run.Authors))
	return nil
}

// ScrapeConfig holds the settings of the scrape pipeline.
type ScrapeConfig struct {
	// ListingURL is the base the page number is appended to.
	ListingURL string

	// AuthorBaseURL is the origin author links are appended to.
	AuthorBaseURL string

	// QuotesOutput is the path of quotes.json.
	QuotesOutput string

	// AuthorsOutput is the path of authors.json.
	AuthorsOutput string

	// MaxPages stops the crawl after this many pages. 0 means no limit.
	MaxPages int

	// Concurrency caps concurrent author fetches. 0 means no cap.
	Concurrency int

	// Progress receives the phase headers and one line per page fetched.
	Progress io.Writer
}

// ScrapeOption configures a ScrapeConfig.
type ScrapeOption func(*ScrapeConfig)

// WithListingURL sets the listing base URL.
func WithListingURL(u string) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.ListingURL = u
	}
}

// WithAuthorBaseURL sets the author base URL.
func WithAuthorBaseURL(u string) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.AuthorBaseURL = u
	}
}

// WithOutputs sets the output file paths.
func WithOutputs(quotesPath, authorsPath string) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.QuotesOutput = quotesPath
		c.AuthorsOutput = authorsPath
	}
}

// WithMaxPages sets the page limit.
func WithMaxPages(n int) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.MaxPages = n
	}
}

// WithConcurrency sets the author fetch concurrency.
func WithConcurrency(n int) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.Concurrency = n
	}
}

// WithProgress sets the progress writer.
func WithProgress(w io.Writer) ScrapeOption {
	return func(c *ScrapeConfig) {
		c.Progress = w
	}
}

// ScrapePipeline builds the four-step scrape pipeline. Both phases share
// fetcher.
func ScrapePipeline(fetcher crawler.Fetcher, pipelineOpts []Option, scrapeOpts ...ScrapeOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &ScrapeConfig{
		ListingURL:    config.DefaultListingURL,
		AuthorBaseURL: config.DefaultAuthorBaseURL,
		QuotesOutput:  config.DefaultQuotesOutput,
		AuthorsOutput: config.DefaultAuthorsOutput,
		MaxPages:      config.DefaultMaxPages,
		Concurrency:   config.DefaultConcurrency,
		Progress:      io.Discard,
	}
	for _, opt := range scrapeOpts {
		opt(cfg)
	}

	spider := crawler.NewSpider(fetcher,
		crawler.WithListingURL(cfg.ListingURL),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithProgress(cfg.Progress),
		crawler.WithSpiderLogger(p.logger),
	)
	authors := crawler.NewAuthorFetcher(fetcher,
		crawler.WithAuthorBaseURL(cfg.AuthorBaseURL),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithFetcherProgress(cfg.Progress),
		crawler.WithFetcherLogger(p.logger),
	)
	writer := report.NewJSONFileWriter()

	p.AddSteps(
		NewCrawlStep(spider, cfg.Progress),
		NewWriteQuotesStep(writer, cfg.QuotesOutput, p.logger),
		NewFetchAuthorsStep(authors, cfg.Progress),
		NewWriteAuthorsStep(writer, cfg.AuthorsOutput, p.logger),
	)

	return p
}
