package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	logger *slog.Logger
)

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global structured logger on stderr
func Init(level string) {
	InitWriter(os.Stderr, level)
}

// InitWriter initializes the global logger on w
func InitWriter(w io.Writer, level string) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	mu.Lock()
	logger = slog.New(handler)
	mu.Unlock()
}

// Logger returns the global logger instance
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return logger
}

// Debug writes to the global logger, dropped unless the level is debug
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

// Info writes to the global logger
func Info(msg string, args ...any) { Logger().Info(msg, args...) }

func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

// Error is used for failures that stop a search or a request
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
