package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PageKind tells listing pages apart from author detail pages.
type PageKind string

const (
	// PageKindListing is a paginated quote listing page.
	PageKindListing PageKind = "listing"

	// PageKindAuthor is an author detail page.
	PageKindAuthor PageKind = "author"
)

// PageVisit records one successful page fetch.
type PageVisit struct {
	// URL is the absolute URL that was fetched.
	URL string `json:"url"`

	// Kind is the page type.
	Kind PageKind `json:"kind"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Hash is the hex SHA-256 of the decoded body.
	// Used to tell whether a page changed between runs.
	Hash string `json:"hash"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`
}

// NewPageVisit creates a PageVisit and computes the body hash.
func NewPageVisit(url string, kind PageKind, statusCode int, body []byte) PageVisit {
	return PageVisit{
		URL:        url,
		Kind:       kind,
		StatusCode: statusCode,
		Hash:       HashBody(body),
		FetchedAt:  time.Now(),
	}
}

// HashBody returns the hex-encoded SHA-256 of body.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
