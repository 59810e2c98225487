// Package logging owns the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	logFile  *os.File
)

// Level represents logging verbosity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Config holds logger configuration.
type Config struct {
	Level      Level
	OutputPath string // empty for stderr
	Format     string // "json" or "text"
}

// ParseLevel converts a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// Init replaces the global logger. Any log file opened by a previous Init
// is closed.
func Init(cfg Config) error {
	var w io.Writer = os.Stderr
	var f *os.File
	if cfg.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o750); err != nil {
			return err
		}
		var err error
		f, err = os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		w = f
	}

	l := New(w, cfg)

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logger, logFile = l, f
	return nil
}

// New builds a logger writing to w without touching the global one.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file, if any, and resets the global logger.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	var err error
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}
	logger = nil
	return err
}

// GetLogger returns the global logger, defaulting to text at INFO on stderr.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = New(os.Stderr, Config{Level: LevelInfo})
	}
	return logger
}

// WithComponent returns the global logger tagged with a subsystem name.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}
