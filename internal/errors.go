package internal

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is matched by StoreError values for unknown ids
var ErrSessionNotFound = errors.New("session not found")

// ConfigError represents missing or invalid configuration. It blocks all store calls.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// StoreError represents a failed list or payload fetch
type StoreError struct {
	Op       string // "list", "get"
	ID       SessionID
	NotFound bool
	Err      error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store error: %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSessionNotFound) match not-found store errors
func (e *StoreError) Is(target error) bool {
	return target == ErrSessionNotFound && e.NotFound
}

// DecodeError represents a raw payload that could not be decoded
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
