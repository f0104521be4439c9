// Package fetch provides the HTTP client used to download listing and
// author pages.
//
// A single Client is created per run and shared read-only by the crawl
// phase and every goroutine of the author fan-out. net/http clients are
// safe for concurrent use, so no locking is involved.
//
// # Usage
//
//	client, err := fetch.NewClient(
//	    fetch.WithTimeout(30*time.Second),
//	    fetch.WithUserAgent("quotescrape/1.0"),
//	)
//	resp, err := client.Get(ctx, "https://quotes.toscrape.com/page/1")
//
// Non-2xx responses are returned as *FetchError wrapping ErrBadStatus.
// Response bodies are decoded to UTF-8 based on the Content-Type header
// and <meta charset> before they are handed to the parser.
package fetch
