package internal

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logLevel  = LogLevelInfo
	zapLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logFormat = "console"
	logger    = newLogger(logFormat)
)

func newLogger(format string) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapLevel)
	return zap.New(core).Sugar()
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
	switch level {
	case LogLevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LogLevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LogLevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogFormat switches the encoder between "console" and "json".
func SetLogFormat(format string) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "json" {
		format = "console"
	}
	if format == logFormat {
		return
	}
	_ = logger.Sync()
	logFormat = format
	logger = newLogger(format)
}

// SyncLogs flushes buffered log entries.
func SyncLogs() {
	_ = logger.Sync()
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
