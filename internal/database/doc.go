// Package database keeps the history of scrape runs in SQLite.
//
// Every run is stored with its status, counters and the full run record as
// JSON, plus one row per fetched page with the page's content hash. The
// history feeds the history and diff commands.
//
// The database lives in a single file under the XDG data directory and uses
// modernc.org/sqlite, so no cgo is required.
package database
