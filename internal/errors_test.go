package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "store.url", Reason: "not set"}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "configuration error") {
		t.Errorf("ConfigError.Error() should contain 'configuration error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "store.url") {
		t.Errorf("ConfigError.Error() should contain field, got: %q", errorMsg)
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("connection refused")
	err := &StoreError{Op: "list", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "store error") {
		t.Errorf("StoreError.Error() should contain 'store error', got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StoreError.Unwrap() should return original error")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Error("StoreError without NotFound should not match ErrSessionNotFound")
	}
}

func TestStoreError_NotFound(t *testing.T) {
	err := &StoreError{Op: "get", ID: "42", NotFound: true, Err: errors.New("no rows")}

	if !strings.Contains(err.Error(), "42") {
		t.Errorf("StoreError.Error() should contain id, got: %q", err.Error())
	}

	wrapped := fmt.Errorf("load messages: %w", err)
	if !errors.Is(wrapped, ErrSessionNotFound) {
		t.Error("wrapped not-found StoreError should match ErrSessionNotFound")
	}

	var storeErr *StoreError
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("errors.As should find StoreError")
	}
	if storeErr.ID != "42" {
		t.Errorf("StoreError.ID = %q, want 42", storeErr.ID)
	}
}

func TestDecodeError(t *testing.T) {
	originalErr := errors.New("invalid character")
	err := &DecodeError{Err: originalErr}

	if !strings.Contains(err.Error(), "decode error") {
		t.Errorf("DecodeError.Error() should contain 'decode error', got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("DecodeError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("ExportError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
