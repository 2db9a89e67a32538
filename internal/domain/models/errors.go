package models

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks optional data (price history, committee roster,
// legislative record) that a provider could not supply. Scorers treat it as
// absence of evidence and it never aborts a run.
var ErrDataUnavailable = errors.New("data unavailable")

// RetrievalError is an external provider I/O failure for one member. The
// pipeline isolates it: the member is skipped and counted, the batch continues.
type RetrievalError struct {
	MemberID string
	Source   string // congress, disclosure, marketdata
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for member %s (%s): %v", e.MemberID, e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// NewRetrievalError wraps an upstream failure with member context.
func NewRetrievalError(memberID, source string, err error) *RetrievalError {
	return &RetrievalError{MemberID: memberID, Source: source, Err: err}
}

// ConfigError is an invalid analysis configuration (weights, thresholds).
// Fatal at startup, before any scoring begins.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError reports an invalid configuration field.
func NewConfigError(field, format string, a ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, a...)}
}
