package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/quotescrape/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "quotescrape.db"

// HistoryDB stores finished runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the file is missing, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per scrape run; run_json holds the full record
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		status TEXT NOT NULL,
		listing_url TEXT NOT NULL,
		pages_crawled INTEGER DEFAULT 0,
		quote_count INTEGER DEFAULT 0,
		author_count INTEGER DEFAULT 0,
		quotes_file TEXT,
		authors_file TEXT,
		error TEXT,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages fetched during a run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		kind TEXT NOT NULL,
		status_code INTEGER,
		hash TEXT,
		fetched_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores run and its page visits and sets run.ID.
func (h *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, status, listing_url, pages_crawled,
		quote_count, author_count, quotes_file, authors_file, error, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		string(run.Status),
		run.ListingURL,
		run.PagesCrawled,
		len(run.Quotes),
		len(run.Authors),
		run.QuotesFile,
		run.AuthorsFile,
		run.ErrorMessage,
		string(runJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, v := range run.Visits {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO pages (run_id, url, kind, status_code, hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		`, id, v.URL, string(v.Kind), v.StatusCode, v.Hash, formatTimestamp(v.FetchedAt))
		if err != nil {
			return 0, fmt.Errorf("failed to insert page visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return id, nil
}

// RunSummary is a run without its quotes and authors, for listings.
type RunSummary struct {
	ID           int64           `json:"id"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Status       model.RunStatus `json:"status"`
	ListingURL   string          `json:"listing_url"`
	PagesCrawled int             `json:"pages_crawled"`
	Quotes       int             `json:"quotes"`
	Authors      int             `json:"authors"`
	Error        string          `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (s RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// ListRuns returns the most recent runs, newest first.
// A limit of 0 or less returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, started_at, finished_at, status, listing_url, pages_crawled,
		quote_count, author_count, error
	FROM runs
	ORDER BY id DESC
	`
	args := make([]any, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunSummary, 0)
	for rows.Next() {
		var s RunSummary
		var started string
		var finished, status, errMsg sql.NullString

		if err := rows.Scan(&s.ID, &started, &finished, &status, &s.ListingURL,
			&s.PagesCrawled, &s.Quotes, &s.Authors, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished.String)
		s.Status = model.RunStatus(status.String)
		s.Error = errMsg.String
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRun returns the run with the given ID, or nil if there is none.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	var runJSON string
	err := h.db.QueryRowContext(ctx, `SELECT run_json FROM runs WHERE id = ?`, id).Scan(&runJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeRun(id, runJSON)
}

// GetLatestRuns returns up to n full runs, newest first.
// Only successful runs are returned when succeededOnly is set.
func (h *HistoryDB) GetLatestRuns(ctx context.Context, n int, succeededOnly bool) ([]*model.Run, error) {
	query := `SELECT id, run_json FROM runs`
	args := make([]any, 0)
	if succeededOnly {
		query += ` WHERE status = ?`
		args = append(args, string(model.RunStatusSucceeded))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, n)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*model.Run, 0, n)
	for rows.Next() {
		var id int64
		var runJSON string
		if err := rows.Scan(&id, &runJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run, err := decodeRun(id, runJSON)
		if err != nil {
			continue // Skip malformed runs
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetPageVisits returns the pages fetched during a run in fetch order.
func (h *HistoryDB) GetPageVisits(ctx context.Context, runID int64) ([]model.PageVisit, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT url, kind, status_code, hash, fetched_at
	FROM pages
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page visits: %w", err)
	}
	defer rows.Close()

	visits := make([]model.PageVisit, 0)
	for rows.Next() {
		var v model.PageVisit
		var kind, fetchedAt string
		if err := rows.Scan(&v.URL, &kind, &v.StatusCode, &v.Hash, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page visit: %w", err)
		}
		v.Kind = model.PageKind(kind)
		v.FetchedAt = parseTimestamp(fetchedAt)
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// decodeRun parses a stored run.
func decodeRun(id int64, runJSON string) (*model.Run, error) {
	var run model.Run
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run %d: %w", id, err)
	}
	run.ID = id
	return &run, nil
}

// formatTimestamp stores times as RFC 3339 in UTC. The zero time is stored
// as an empty string.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time if
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
