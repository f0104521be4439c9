package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.ListingURL != DefaultListingURL {
		t.Errorf("ListingURL = %q, want %q", cfg.ListingURL, DefaultListingURL)
	}
	if cfg.AuthorBaseURL != DefaultAuthorBaseURL {
		t.Errorf("AuthorBaseURL = %q, want %q", cfg.AuthorBaseURL, DefaultAuthorBaseURL)
	}
	if cfg.QuotesOutput != "quotes.json" || cfg.AuthorsOutput != "authors.json" {
		t.Errorf("outputs = %q, %q", cfg.QuotesOutput, cfg.AuthorsOutput)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxPages != 0 || cfg.Concurrency != 0 {
		t.Errorf("MaxPages = %d, Concurrency = %d, want 0, 0", cfg.MaxPages, cfg.Concurrency)
	}
	if !cfg.SaveHistory {
		t.Error("SaveHistory should default to true")
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("DBDir = %q, want %q", cfg.DBDir, XDGDataDir())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("XDGDataDir() = %q, want suffix %q", XDGDataDir(), AppName)
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("XDGConfigDir() = %q, want suffix %q", XDGConfigDir(), AppName)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty listing URL", func(c *Config) { c.ListingURL = "" }, ErrInvalidListingURL},
		{"relative listing URL", func(c *Config) { c.ListingURL = "/page/" }, ErrInvalidListingURL},
		{"ftp listing URL", func(c *Config) { c.ListingURL = "ftp://example.com/" }, ErrInvalidListingURL},
		{"bad author base", func(c *Config) { c.AuthorBaseURL = "quotes.toscrape.com" }, ErrInvalidAuthorBaseURL},
		{"empty quotes output", func(c *Config) { c.QuotesOutput = "" }, ErrEmptyOutputPath},
		{"empty authors output", func(c *Config) { c.AuthorsOutput = "" }, ErrEmptyOutputPath},
		{"same outputs", func(c *Config) { c.AuthorsOutput = "./quotes.json" }, ErrSameOutputPath},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative max pages", func(c *Config) { c.MaxPages = -1 }, ErrInvalidMaxPages},
		{"negative concurrency", func(c *Config) { c.Concurrency = -2 }, ErrInvalidConcurrency},
		{"zero body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
		{"tor and proxy", func(c *Config) {
			c.UseTor = true
			c.ProxyAddress = "127.0.0.1:9050"
		}, ErrConflictingEgress},
		{"tor without startup timeout", func(c *Config) {
			c.UseTor = true
			c.TorStartupTimeout = 0
		}, ErrInvalidTorStartupTimeout},
		{"limits set", func(c *Config) {
			c.MaxPages = 3
			c.Concurrency = 4
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSensitiveValues(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.SensitiveValues(); len(got) != 0 {
		t.Errorf("SensitiveValues() = %v, want empty", got)
	}

	cfg.Cookie = "session=abc"
	cfg.Headers = map[string]string{"Authorization": "Bearer xyz", "X-Empty": ""}

	got := cfg.SensitiveValues()
	slices.Sort(got)
	want := []string{"Bearer xyz", "session=abc"}
	if !slices.Equal(got, want) {
		t.Errorf("SensitiveValues() = %v, want %v", got, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("err = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("timeout: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		content := `listingURL: http://localhost:8080/page/
authorBaseURL: http://localhost:8080
quotesOutput: out/q.json
authorsOutput: out/a.json
timeout: 5s
maxPages: 2
concurrency: 3
cookie: session=abc
headers:
  X-Test: "1"
proxy: 127.0.0.1:9050
history: false
`
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.ListingURL != "http://localhost:8080/page/" {
			t.Errorf("ListingURL = %q", cfg.ListingURL)
		}
		if cfg.AuthorBaseURL != "http://localhost:8080" {
			t.Errorf("AuthorBaseURL = %q", cfg.AuthorBaseURL)
		}
		if cfg.QuotesOutput != "out/q.json" || cfg.AuthorsOutput != "out/a.json" {
			t.Errorf("outputs = %q, %q", cfg.QuotesOutput, cfg.AuthorsOutput)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
		}
		if cfg.MaxPages != 2 || cfg.Concurrency != 3 {
			t.Errorf("MaxPages = %d, Concurrency = %d", cfg.MaxPages, cfg.Concurrency)
		}
		if cfg.Cookie != "session=abc" || cfg.Headers["X-Test"] != "1" {
			t.Errorf("Cookie = %q, Headers = %v", cfg.Cookie, cfg.Headers)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress = %q", cfg.ProxyAddress)
		}
		if cfg.SaveHistory {
			t.Error("SaveHistory should be false")
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("maxPages: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.MaxPages != 1 {
			t.Errorf("MaxPages = %d, want 1", cfg.MaxPages)
		}
		if cfg.ListingURL != DefaultListingURL || cfg.Timeout != DefaultTimeout || !cfg.SaveHistory {
			t.Error("unset fields should keep defaults")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("maxPages: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}
