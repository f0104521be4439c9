package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched in the current and
// home directories.
const DefaultConfigFile = ".quotescrape"

// XDGConfigFileName is the config file name inside XDGConfigDir.
const XDGConfigFileName = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the YAML configuration file. Unset fields keep
// the value already in Config.
type File struct {
	ListingURL    string            `yaml:"listingURL,omitempty"`
	AuthorBaseURL string            `yaml:"authorBaseURL,omitempty"`
	QuotesOutput  string            `yaml:"quotesOutput,omitempty"`
	AuthorsOutput string            `yaml:"authorsOutput,omitempty"`
	Timeout       time.Duration     `yaml:"timeout,omitempty"`
	MaxPages      int               `yaml:"maxPages,omitempty"`
	Concurrency   int               `yaml:"concurrency,omitempty"`
	UserAgent     string            `yaml:"userAgent,omitempty"`
	MaxBodySize   int64             `yaml:"maxBodySize,omitempty"`
	Cookie        string            `yaml:"cookie,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty"`
	Proxy         string            `yaml:"proxy,omitempty"`
	History       *bool             `yaml:"history,omitempty"`
}

// LoadConfigFile loads a YAML config file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf.ListingURL != "" {
		c.ListingURL = cf.ListingURL
	}
	if cf.AuthorBaseURL != "" {
		c.AuthorBaseURL = cf.AuthorBaseURL
	}
	if cf.QuotesOutput != "" {
		c.QuotesOutput = cf.QuotesOutput
	}
	if cf.AuthorsOutput != "" {
		c.AuthorsOutput = cf.AuthorsOutput
	}
	if cf.Timeout != 0 {
		c.Timeout = cf.Timeout
	}
	if cf.MaxPages != 0 {
		c.MaxPages = cf.MaxPages
	}
	if cf.Concurrency != 0 {
		c.Concurrency = cf.Concurrency
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if cf.MaxBodySize != 0 {
		c.MaxBodySize = cf.MaxBodySize
	}
	if cf.Cookie != "" {
		c.Cookie = cf.Cookie
	}
	if len(cf.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(cf.Headers))
		}
		for k, v := range cf.Headers {
			c.Headers[k] = v
		}
	}
	if cf.Proxy != "" {
		c.ProxyAddress = cf.Proxy
	}
	if cf.History != nil {
		c.SaveHistory = *cf.History
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .quotescrape in the current directory
//  3. .quotescrape in the user's home directory
//  4. config.yaml in XDGConfigDir
//
// Returns the path of the first file found, or "" if there is none.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFileName))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
