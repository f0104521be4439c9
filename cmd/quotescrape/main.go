// Package main provides the entry point for the quotescrape CLI.
//
// quotescrape crawls every listing page of quotes.toscrape.com, writes the
// quotes to quotes.json, then fetches each distinct author's page and writes
// authors.json.
//
// Usage:
//
//	quotescrape scrape
//	quotescrape history
//	quotescrape diff
//
// See --help for all available options.
package main

func main() {
	Execute()
}
