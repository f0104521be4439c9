package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidListingURL is returned when the listing URL is not an
	// absolute http(s) URL.
	ErrInvalidListingURL = errors.New("invalid listing URL: must be an absolute http or https URL")

	// ErrInvalidAuthorBaseURL is returned when the author base URL is not an
	// absolute http(s) URL.
	ErrInvalidAuthorBaseURL = errors.New("invalid author base URL: must be an absolute http or https URL")

	// ErrEmptyOutputPath is returned when an output path is empty.
	ErrEmptyOutputPath = errors.New("output path must not be empty")

	// ErrSameOutputPath is returned when quotes and authors would be written
	// to the same file.
	ErrSameOutputPath = errors.New("quotes and authors output paths must differ")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when max pages is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative (0 = unlimited)")

	// ErrInvalidConcurrency is returned when concurrency is negative.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative (0 = unlimited)")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrConflictingEgress is returned when both --tor and --proxy are given.
	ErrConflictingEgress = errors.New("conflicting egress: --tor and --proxy cannot be used together")

	// ErrInvalidTorStartupTimeout is returned when the Tor startup timeout
	// is not positive.
	ErrInvalidTorStartupTimeout = errors.New("invalid tor startup timeout: must be positive")
)
