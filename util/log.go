package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const LOG_LEVEL_ENV = "FFS_LOG_LEVEL"

type LoggerOptions struct {
	Level           string
	Output          io.Writer
	Prefix          string
	ReportCaller    bool
	ReportTimestamp bool
}

func DefaultLoggerOptions() LoggerOptions {
	opts := LoggerOptions{
		Level:           "info",
		Output:          os.Stderr,
		ReportTimestamp: true,
	}
	if level := os.Getenv(LOG_LEVEL_ENV); level != "" {
		opts.Level = level
	}
	return opts
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func NewLogger(opts LoggerOptions) *log.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return log.NewWithOptions(opts.Output, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      time.TimeOnly,
		ReportCaller:    opts.ReportCaller,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

var logger = NewLogger(DefaultLoggerOptions())

// Logger returns the process logger shared by all packages
func Logger() *log.Logger {
	return logger
}

// SetLogger replaces the process logger; call it before decoding starts
func SetLogger(l *log.Logger) {
	logger = l
}

// Discard silences the process logger, used by tests
func Discard() {
	logger = NewLogger(LoggerOptions{Output: io.Discard, Level: "fatal"})
}
