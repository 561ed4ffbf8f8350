// Package logging provides structured logging via slog. Because the TUI
// owns the terminal, logs are appended to a debug file under the user
// cache directory instead of stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// AppDir is the per-application directory under the user cache dir.
	AppDir = "actionlog"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile       *os.File
)

// Init opens the debug log file in append mode and installs a JSON slog
// handler writing to it. Any failure falls back to a discarding logger;
// logging must never take the tool down.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	var w io.Writer = io.Discard
	if cacheDir, err := os.UserCacheDir(); err == nil {
		dir := filepath.Join(cacheDir, AppDir)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				logFile = f
				w = f
			}
		}
	}

	defaultLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return nil
}

// Close closes the log file if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	return err
}

func logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { logger().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { logger().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { logger().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { logger().Error(msg, args...) }
