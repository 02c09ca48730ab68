package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatchingDependencies is returned before any fetch when the manifest has no
	// dependency sections or the include/exclude filters removed every entry.
	ErrNoMatchingDependencies = errors.New("no dependencies match the given filters")

	// ErrInvalidRange marks a declared range that does not parse as a semver range.
	// Entries carrying it are dropped, never reported.
	ErrInvalidRange = errors.New("invalid semver range")
)

// FetchError is a registry failure for one package. It aborts the whole batch.
type FetchError struct {
	Name string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch metadata for %q: %v", e.Name, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-success registry response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether the registry answered 404.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// Retryable reports whether the response is worth retrying (429 and 5xx).
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
