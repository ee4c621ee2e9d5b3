package folio

import (
	"fmt"
	"time"
)

// This file defines the error taxonomy used across the valuation engine.
// Providers classify failures at the boundary, so the core never has to
// inspect error strings.

// RateLimitError signals provider throttling. It is the only retryable
// condition in the engine.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration // zero when the provider gives no hint
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// NotFoundError reports that the provider has no data for an instrument.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("no data for %q", e.ID) }

// TransientError wraps a network or provider failure that is not retried.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string { return fmt.Sprintf("%s: %v", e.Provider, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// SourceMissingError reports that a whole category's holdings input is
// absent. The composer recovers it: the category contributes zero and the
// other categories still run.
type SourceMissingError struct {
	Name string
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("holdings source for %s not found: %s", e.Name, e.Path)
}
