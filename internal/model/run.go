package model

import "time"

// RunStatus is the final state of a run.
type RunStatus string

const (
	// RunStatusRunning is the state while the pipeline executes.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded means both output files were written.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed means some step returned an error.
	// quotes.json may still have been written if the failure came later.
	RunStatusFailed RunStatus = "failed"
)

// Run carries the state of one scrape through the pipeline.
// Each step reads what earlier steps left and adds its own results.
type Run struct {
	// ID is the history database ID, zero until the run is saved.
	ID int64 `json:"id,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is set when the pipeline returns.
	FinishedAt time.Time `json:"finished_at"`

	// Status is the final run status.
	Status RunStatus `json:"status"`

	// ListingURL is the base listing URL the page number is appended to.
	ListingURL string `json:"listing_url"`

	// Quotes are all quotes in page order, then in-page order.
	Quotes []Quote `json:"quotes"`

	// AuthorLinks is the snapshot of the link set taken when the crawl ended.
	AuthorLinks []AuthorLink `json:"author_links"`

	// Authors are in fetch completion order.
	Authors []Author `json:"authors"`

	// Visits are all successful page fetches.
	Visits []PageVisit `json:"visits"`

	// PagesCrawled is the number of listing pages fetched.
	PagesCrawled int `json:"pages_crawled"`

	// QuotesFile is the path quotes.json was written to, once written.
	QuotesFile string `json:"quotes_file,omitempty"`

	// AuthorsFile is the path authors.json was written to, once written.
	AuthorsFile string `json:"authors_file,omitempty"`

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps"`

	// Error holds the error that stopped the run.
	Error error `json:"-"`

	// ErrorMessage is Error as a string, for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run for the given listing URL.
func NewRun(listingURL string) *Run {
	return &Run{
		StartedAt:      time.Now(),
		Status:         RunStatusRunning,
		ListingURL:     listingURL,
		Quotes:         make([]Quote, 0),
		AuthorLinks:    make([]AuthorLink, 0),
		Authors:        make([]Author, 0),
		Visits:         make([]PageVisit, 0),
		PerformedSteps: make([]string, 0),
	}
}

// Finish stamps the end time and derives the status from err.
func (r *Run) Finish(err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err
		r.ErrorMessage = err.Error()
		return
	}
	r.Status = RunStatusSucceeded
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddVisits appends page visits.
func (r *Run) AddVisits(visits ...PageVisit) {
	r.Visits = append(r.Visits, visits...)
}
