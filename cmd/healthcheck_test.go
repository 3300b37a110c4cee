package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/session-dashboard/internal"
)

func TestHealthcheckCommandExists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "healthcheck" {
			found = true
			break
		}
	}
	if !found {
		t.Error("healthcheck command not found in root command")
	}
}

func TestRunHealthcheck(t *testing.T) {
	resetFlags(t)
	dbPath = fixtureDB(t)

	var buf bytes.Buffer
	if err := runHealthcheck(&buf); err != nil {
		t.Fatalf("runHealthcheck() error = %v\n%s", err, buf.String())
	}

	out := buf.String()
	for _, want := range []string{
		"Backend: sqlite",
		"Sessions: 4 total, 3 visible",
		"Session 4: 1 message(s)",
		"All checks passed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunHealthcheck_EmptyStore(t *testing.T) {
	resetFlags(t)
	dbPath = filepath.Join(t.TempDir(), "empty.db")
	createEmptyDB(t, dbPath)

	var buf bytes.Buffer
	if err := runHealthcheck(&buf); err != nil {
		t.Fatalf("runHealthcheck() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No visible sessions") {
		t.Errorf("output missing empty-store warning:\n%s", buf.String())
	}
}

func TestRunHealthcheck_Unconfigured(t *testing.T) {
	resetFlags(t)
	dbPath = filepath.Join(t.TempDir(), "missing.db")

	var buf bytes.Buffer
	err := runHealthcheck(&buf)
	var cfgErr *internal.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("runHealthcheck() error = %v, want *ConfigError", err)
	}
	if cfgErr.Field != "store.path" {
		t.Errorf("ConfigError.Field = %q, want store.path", cfgErr.Field)
	}
	if !strings.Contains(buf.String(), "Invalid configuration") {
		t.Errorf("output missing failure line:\n%s", buf.String())
	}
}
