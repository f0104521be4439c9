package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound is wrapped by ParseError when a required element
	// is missing from a page.
	ErrElementNotFound = errors.New("required element not found")

	// ErrMisaligned is wrapped by ParseError when the quote text, author
	// and tag sequences of a listing page have different lengths.
	ErrMisaligned = errors.New("quote, author and tag sequences are misaligned")
)

// ParseError reports a page whose structure does not match what the
// parser expects.
type ParseError struct {
	// URL is the page that failed to parse.
	URL string

	// Selector is the CSS selector involved, if any.
	Selector string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("parse %s: %s: %v", e.URL, e.Selector, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
