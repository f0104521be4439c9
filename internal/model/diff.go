package model

import (
	"strings"
	"time"
)

// RunMetadata summarizes one side of a RunDiff.
type RunMetadata struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Status       RunStatus `json:"status"`
	Quotes       int       `json:"quotes"`
	Authors      int       `json:"authors"`
	PagesCrawled int       `json:"pages_crawled"`
}

// NewRunMetadata builds the summary of r.
func NewRunMetadata(r *Run) RunMetadata {
	return RunMetadata{
		ID:           r.ID,
		StartedAt:    r.StartedAt,
		Status:       r.Status,
		Quotes:       len(r.Quotes),
		Authors:      len(r.Authors),
		PagesCrawled: r.PagesCrawled,
	}
}

// RunDiff is the difference between two runs.
type RunDiff struct {
	Previous RunMetadata `json:"previous_run"`
	Current  RunMetadata `json:"current_run"`

	// NewQuotes are in the current run only, in current run order.
	NewQuotes []Quote `json:"new_quotes"`

	// RemovedQuotes are in the previous run only, in previous run order.
	RemovedQuotes []Quote `json:"removed_quotes"`

	UnchangedQuotes int `json:"unchanged_quotes"`

	NewAuthors     []Author `json:"new_authors"`
	RemovedAuthors []Author `json:"removed_authors"`

	// ChangedAuthors holds the current record of authors whose fields differ.
	ChangedAuthors []Author `json:"changed_authors"`

	UnchangedAuthors int `json:"unchanged_authors"`

	// ChangedPages are URLs fetched by both runs whose content hash differs.
	ChangedPages []string `json:"changed_pages"`
}

// HasChanges reports whether anything differs between the runs.
func (d *RunDiff) HasChanges() bool {
	return len(d.NewQuotes) > 0 || len(d.RemovedQuotes) > 0 ||
		len(d.NewAuthors) > 0 || len(d.RemovedAuthors) > 0 ||
		len(d.ChangedAuthors) > 0 || len(d.ChangedPages) > 0
}

// authorKey identifies an author across runs. The scraped name carries
// trailing whitespace, which is not significant here.
func authorKey(a Author) string {
	return strings.TrimSpace(a.FullName)
}

// CompareRuns computes what changed from previous to current.
func CompareRuns(previous, current *Run) *RunDiff {
	diff := &RunDiff{
		Previous:       NewRunMetadata(previous),
		Current:        NewRunMetadata(current),
		NewQuotes:      make([]Quote, 0),
		RemovedQuotes:  make([]Quote, 0),
		NewAuthors:     make([]Author, 0),
		RemovedAuthors: make([]Author, 0),
		ChangedAuthors: make([]Author, 0),
		ChangedPages:   make([]string, 0),
	}

	prevQuotes := make(map[string]struct{}, len(previous.Quotes))
	for _, q := range previous.Quotes {
		prevQuotes[q.Key()] = struct{}{}
	}
	currQuotes := make(map[string]struct{}, len(current.Quotes))
	for _, q := range current.Quotes {
		currQuotes[q.Key()] = struct{}{}
		if _, ok := prevQuotes[q.Key()]; ok {
			diff.UnchangedQuotes++
		} else {
			diff.NewQuotes = append(diff.NewQuotes, q)
		}
	}
	for _, q := range previous.Quotes {
		if _, ok := currQuotes[q.Key()]; !ok {
			diff.RemovedQuotes = append(diff.RemovedQuotes, q)
		}
	}

	prevAuthors := make(map[string]Author, len(previous.Authors))
	for _, a := range previous.Authors {
		prevAuthors[authorKey(a)] = a
	}
	currAuthors := make(map[string]struct{}, len(current.Authors))
	for _, a := range current.Authors {
		currAuthors[authorKey(a)] = struct{}{}
		old, ok := prevAuthors[authorKey(a)]
		switch {
		case !ok:
			diff.NewAuthors = append(diff.NewAuthors, a)
		case old != a:
			diff.ChangedAuthors = append(diff.ChangedAuthors, a)
		default:
			diff.UnchangedAuthors++
		}
	}
	for _, a := range previous.Authors {
		if _, ok := currAuthors[authorKey(a)]; !ok {
			diff.RemovedAuthors = append(diff.RemovedAuthors, a)
		}
	}

	prevHashes := make(map[string]string, len(previous.Visits))
	for _, v := range previous.Visits {
		prevHashes[v.URL] = v.Hash
	}
	for _, v := range current.Visits {
		if h, ok := prevHashes[v.URL]; ok && h != v.Hash {
			diff.ChangedPages = append(diff.ChangedPages, v.URL)
		}
	}

	return diff
}
