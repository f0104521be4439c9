// Package model defines the records produced by a quotescrape run.
//
// This package contains the following main types:
//   - Quote: one quote scraped from a listing page
//   - Author: the biography scraped from an author detail page
//   - AuthorLinkSet: the deduplicated set of author detail links
//   - PageVisit: bookkeeping for every page fetched during a run
//   - Run: the state passed between pipeline steps
//
// Models live in their own package so crawler, pipeline, report and
// database can share them without import cycles.
package model
