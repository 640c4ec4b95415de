package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrNoResults     = errors.New("no candidates survived discovery")
	ErrNoContact     = errors.New("record has no phone or email")
	ErrDuplicateHost = errors.New("host already accepted")
	ErrEmptyResponse = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrNotHTML       = errors.New("response is not HTML")
	ErrTargetReached = errors.New("target record count reached")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// BackendError wraps a failed search-backend request. The backend that failed
// contributes zero hits; the run continues with the remaining backends.
type BackendError struct {
	Backend BackendName
	Query   string
	Page    int
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed for %q (page %d): %v", e.Backend, e.Query, e.Page, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExtractError wraps errors that occur during field extraction. An empty
// extraction is not an error; this covers malformed documents only.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
