package internal

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}
	if zapLevel.Level() != zapcore.DebugLevel {
		t.Errorf("zap level = %v, want debug", zapLevel.Level())
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
	if zapLevel.Level() != zapcore.ErrorLevel {
		t.Errorf("zap level = %v, want error", zapLevel.Level())
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelInfo {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelInfo", logLevel)
	}
}

func TestSetLogFormat(t *testing.T) {
	defer SetLogFormat("console")

	SetLogFormat("JSON")
	if logFormat != "json" {
		t.Errorf("logFormat = %q, want json", logFormat)
	}

	SetLogFormat("something-else")
	if logFormat != "console" {
		t.Errorf("logFormat = %q, want console", logFormat)
	}
}

func TestLogFunctions(t *testing.T) {
	// no panics is all we can check without capturing stderr
	LogError("test error message %d", 1)
	LogWarn("test warning message")
	LogInfo("test info message")
	LogDebug("test debug message")
	SyncLogs()
}

func TestLogLevels(t *testing.T) {
	if LogLevelError >= LogLevelWarn {
		t.Error("LogLevelError should be less than LogLevelWarn")
	}
	if LogLevelWarn >= LogLevelInfo {
		t.Error("LogLevelWarn should be less than LogLevelInfo")
	}
	if LogLevelInfo >= LogLevelDebug {
		t.Error("LogLevelInfo should be less than LogLevelDebug")
	}
}
