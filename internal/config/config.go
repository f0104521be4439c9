package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "quotescrape"

	// DefaultListingURL is the base the listing page number is appended to.
	DefaultListingURL = "https://quotes.toscrape.com/page/"

	// DefaultAuthorBaseURL is the origin author links are appended to.
	// The site serves author pages over plain HTTP.
	DefaultAuthorBaseURL = "http://quotes.toscrape.com"

	// DefaultQuotesOutput is the quotes output file.
	DefaultQuotesOutput = "quotes.json"

	// DefaultAuthorsOutput is the authors output file.
	DefaultAuthorsOutput = "authors.json"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages of 0 follows "next" links until the last page.
	DefaultMaxPages = 0

	// DefaultConcurrency of 0 fetches every author page at once.
	DefaultConcurrency = 0

	// DefaultUserAgent identifies quotescrape in HTTP requests.
	DefaultUserAgent = "quotescrape/1.0 (+https://github.com/nao1215/quotescrape)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultHistoryLimit is how many runs the history command lists.
	DefaultHistoryLimit = 20
)

// Config holds all configuration options for a scrape.
// It is populated from defaults, the config file and CLI flags, then passed
// down explicitly.
type Config struct {
	// ListingURL is the listing base URL; page numbers are appended to it.
	ListingURL string

	// AuthorBaseURL is the origin author links are appended to.
	AuthorBaseURL string

	// QuotesOutput is the path quotes.json is written to.
	QuotesOutput string

	// AuthorsOutput is the path authors.json is written to.
	AuthorsOutput string

	// SummaryFile is an optional Markdown summary path. Empty disables it.
	SummaryFile string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxPages stops the crawl after this many listing pages. 0 means no limit.
	MaxPages int

	// Concurrency caps concurrent author fetches. 0 means no cap.
	Concurrency int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Cookie is sent with every request when set.
	Cookie string

	// Headers are sent with every request.
	Headers map[string]string

	// ProxyAddress routes requests through an external SOCKS5 proxy
	// ("host:port"). Empty means direct connections.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes requests through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap.
	TorStartupTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the default
	// locations are searched.
	ConfigFilePath string

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ListingURL:        DefaultListingURL,
		AuthorBaseURL:     DefaultAuthorBaseURL,
		QuotesOutput:      DefaultQuotesOutput,
		AuthorsOutput:     DefaultAuthorsOutput,
		Timeout:           DefaultTimeout,
		MaxPages:          DefaultMaxPages,
		Concurrency:       DefaultConcurrency,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		SaveHistory:       true,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for quotescrape.
// On Linux: ~/.local/share/quotescrape
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for quotescrape.
// On Linux: ~/.config/quotescrape
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SensitiveValues returns configured secrets that must not appear in logs.
func (c *Config) SensitiveValues() []string {
	values := make([]string, 0, 1+len(c.Headers))
	if c.Cookie != "" {
		values = append(values, c.Cookie)
	}
	for _, v := range c.Headers {
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !isHTTPURL(c.ListingURL) {
		return ErrInvalidListingURL
	}
	if !isHTTPURL(c.AuthorBaseURL) {
		return ErrInvalidAuthorBaseURL
	}
	if c.QuotesOutput == "" || c.AuthorsOutput == "" {
		return ErrEmptyOutputPath
	}
	if filepath.Clean(c.QuotesOutput) == filepath.Clean(c.AuthorsOutput) {
		return ErrSameOutputPath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingEgress
	}
	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}
	return nil
}

// isHTTPURL reports whether s is an absolute http or https URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
