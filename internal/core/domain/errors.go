package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupported indicates a source cannot serve the requested work.
	// Resolution skips such a source without counting it as a failure.
	ErrUnsupported = errors.New("unsupported")

	// ErrStale indicates a result arrived after the user moved on.
	// The result was discarded.
	ErrStale = errors.New("stale response")

	// ErrNotConfigured indicates a provider is missing credentials or settings.
	ErrNotConfigured = errors.New("not configured")

	// ErrMalformed indicates a provider returned unusable content.
	ErrMalformed = errors.New("malformed response")
)

// ProviderError reports a failure inside one external provider.
type ProviderError struct {
	// Provider names the failing provider (e.g. "getbible", "gemini").
	Provider string

	// Op is the operation that failed.
	Op string

	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a ProviderError.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// AttemptFailure records why one resolution attempt failed.
type AttemptFailure struct {
	Source string
	Err    error
}

// ResolutionError reports that every source failed for a chapter.
// Nothing is cached when it is returned.
type ResolutionError struct {
	Key      ChapterKey
	Attempts []AttemptFailure
}

func (e *ResolutionError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Source, a.Err))
	}
	return fmt.Sprintf("resolve %s: all sources failed [%s]", e.Key, strings.Join(parts, "; "))
}

// Unwrap exposes each attempt's error to errors.Is and errors.As.
func (e *ResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// RenderError reports a failed or contract-violating rendering.
// The cached record is left untouched when it is returned.
type RenderError struct {
	Key    ChapterKey
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("render %s: %s", e.Key, e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ChatError reports a failed exchange with the conversation provider.
// The session has been discarded when it is returned.
type ChatError struct {
	Err error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("chat: %v", e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

// CacheWriteError reports a failed cache write. It is never fatal.
type CacheWriteError struct {
	Key string
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write %s: %v", e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
