package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/quotescrape/internal/config"
	"github.com/nao1215/quotescrape/internal/database"
	"github.com/nao1215/quotescrape/internal/fetch"
	"github.com/nao1215/quotescrape/internal/log"
	"github.com/nao1215/quotescrape/internal/model"
	"github.com/nao1215/quotescrape/internal/pipeline"
	"github.com/nao1215/quotescrape/internal/report"
	"github.com/nao1215/quotescrape/internal/tor"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl all quotes, then fetch every author",
		Long: `Scrape follows the "next" links of the listing pages from page 1 and
writes every quote to quotes.json. It then fetches the page of every distinct
author concurrently and writes authors.json.

If any listing page fails, nothing is written. If any author page fails,
quotes.json is kept and authors.json is not written.

Examples:
  # Scrape quotes.toscrape.com into the current directory
  quotescrape scrape

  # Only the first two pages, at most 4 author fetches at a time
  quotescrape scrape -p 2 --concurrency 4

  # Write a Markdown summary next to the JSON files
  quotescrape scrape -s summary.md

  # Route all requests through an embedded Tor daemon
  quotescrape scrape --tor`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .quotescrape in current or home directory)")

	cmd.Flags().String("listing-url", config.DefaultListingURL,
		"Listing base URL; the page number is appended")
	cmd.Flags().String("author-base-url", config.DefaultAuthorBaseURL,
		"Origin that author links are appended to")
	cmd.Flags().String("quotes-output", config.DefaultQuotesOutput,
		"Path of the quotes output file")
	cmd.Flags().String("authors-output", config.DefaultAuthorsOutput,
		"Path of the authors output file")

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of listing pages to crawl (0 = until the last page)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Maximum concurrent author fetches (0 = unlimited)")

	cmd.Flags().StringP("summary", "s", "",
		"Write a Markdown summary of the run to this path")

	cmd.Flags().String("proxy", "",
		"Route requests through an external SOCKS5 proxy (host:port)")
	cmd.Flags().Bool("tor", false,
		"Route requests through an embedded Tor daemon")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.MarkFlagsMutuallyExclusive("proxy", "tor")

	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, log.WithSecrets(cfg.SensitiveValues()...))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// A missing explicit config file is an error; a missing default one is not.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cf.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	stringFlags := map[string]*string{
		"listing-url":     &cfg.ListingURL,
		"author-base-url": &cfg.AuthorBaseURL,
		"quotes-output":   &cfg.QuotesOutput,
		"authors-output":  &cfg.AuthorsOutput,
		"summary":         &cfg.SummaryFile,
		"proxy":           &cfg.ProxyAddress,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.UseTor {
		// --tor replaces a proxy that came from the config file.
		if !flags.Changed("proxy") {
			cfg.ProxyAddress = ""
		}
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.SaveHistory = false
	}

	cfg.DBDir = getDBDir(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScrape executes the scrape pipeline, records the run and prints a
// summary to out. The pipeline error, if any, is returned after the summary.
func runScrape(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"listingURL", cfg.ListingURL,
		"maxPages", cfg.MaxPages,
		"concurrency", cfg.Concurrency,
		"saveHistory", cfg.SaveHistory,
	)

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithCookie(cfg.Cookie),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithLogger(logger),
	}

	switch {
	case cfg.UseTor:
		daemon, err := startTor(ctx, out, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := daemon.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}()
		addr, err := daemon.SocksAddr()
		if err != nil {
			return err
		}
		fetchOpts = append(fetchOpts, fetch.WithSOCKS5Proxy(addr))
	case cfg.ProxyAddress != "":
		if err := tor.CheckProxy(ctx, cfg.ProxyAddress); err != nil {
			return fmt.Errorf("proxy check failed: %w", err)
		}
		fetchOpts = append(fetchOpts, fetch.WithSOCKS5Proxy(cfg.ProxyAddress))
	}

	client, err := fetch.NewClient(fetchOpts...)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	var db *database.HistoryDB
	if cfg.SaveHistory {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	p := pipeline.ScrapePipeline(client,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithListingURL(cfg.ListingURL),
		pipeline.WithAuthorBaseURL(cfg.AuthorBaseURL),
		pipeline.WithOutputs(cfg.QuotesOutput, cfg.AuthorsOutput),
		pipeline.WithMaxPages(cfg.MaxPages),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithProgress(out),
	)

	run := model.NewRun(cfg.ListingURL)
	runErr := p.Execute(ctx, run)
	run.Finish(runErr)

	if db != nil {
		// The run is recorded even when ctx was cancelled by a signal.
		if _, err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Error("failed to save run", "error", err)
		} else {
			logger.Info("run saved to history", "id", run.ID, "db", db.Path())
		}
	}

	fmt.Fprintln(out)
	if err := writeSummaries(out, cfg, run, logger); err != nil {
		logger.Error("failed to write summary", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("scrape failed: %w", runErr)
	}
	return nil
}

// writeSummaries prints the text summary to out and, when a summary file is
// configured, renders the Markdown summary into it.
func writeSummaries(out io.Writer, cfg *config.Config, run *model.Run, logger *slog.Logger) error {
	writers := []report.Writer{report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))}

	if cfg.SummaryFile != "" {
		f, err := createSummaryFile(cfg.SummaryFile)
		if err != nil {
			logger.Error("skipping markdown summary", "path", cfg.SummaryFile, "error", err)
		} else {
			defer f.Close()
			writers = append(writers, report.NewMarkdownWriter(f))
		}
	}

	_, err := report.NewMultiWriter(writers...).Write(run)
	return err
}

// createSummaryFile creates or truncates path, creating parent directories
// as needed.
func createSummaryFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // user-selected summary path
	if err != nil {
		return nil, fmt.Errorf("failed to create summary file: %w", err)
	}
	return f, nil
}

// startTor starts the embedded Tor daemon and verifies its SOCKS port.
func startTor(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) (*tor.Daemon, error) {
	fmt.Fprintln(out, "Starting embedded Tor daemon...")
	fmt.Fprintf(out, "This may take a few minutes while Tor bootstraps.\n\n")

	daemon := tor.NewDaemon(
		tor.WithStartupTimeout(cfg.TorStartupTimeout),
		tor.WithLogger(logger),
	)
	if err := daemon.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	addr, err := daemon.SocksAddr()
	if err == nil {
		err = tor.CheckProxy(ctx, addr)
	}
	if err != nil {
		_ = daemon.Stop() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("embedded Tor proxy check failed: %w", err)
	}

	fmt.Fprintf(out, "SOCKS proxy: %s\n\n", addr)
	return daemon, nil
}
