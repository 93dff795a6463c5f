// internal/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the application-wide logger. It is usable before Init is called.
var Log = NewLogger("info")

// FileOptions configures the optional rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates a JSON logger writing to stdout with the given level.
func NewLogger(level string) *logrus.Logger {
	var log = logrus.New()

	// Using JSON format for structured logging.
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(ParseLevel(level))
	return log
}

// ParseLevel maps a config string to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Init reconfigures the global logger. When a file path is given the output goes
// to both stdout and a size-rotated file.
func Init(level string, file FileOptions) {
	Log.SetLevel(ParseLevel(level))
	Log.SetOutput(newOutput(file))
}

func newOutput(file FileOptions) io.Writer {
	if file.Path == "" {
		return os.Stdout
	}
	maxSize := file.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	rotating := &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    maxSize,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAgeDays,
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotating)
}
