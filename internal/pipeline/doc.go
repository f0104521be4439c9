// Package pipeline runs a scrape as a sequence of steps.
//
// The scrape pipeline has four steps, run in order and stopping at the first
// failure:
//
//	crawl_quotes -> write_quotes -> fetch_authors -> write_authors
//
// Each step receives the shared *model.Run, reads what earlier steps stored
// on it and adds its own results. Because quotes.json is written before the
// author phase starts, a failure while fetching authors leaves quotes.json
// in place and authors.json unwritten.
package pipeline
