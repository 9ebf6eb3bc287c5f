package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Log level mapping
var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// loggers bundles the application logger and the one used for API traffic
type loggers struct {
	main     *slog.Logger
	requests *slog.Logger
	files    []io.Closer
}

func (l *loggers) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// initLogging opens the log files and, when verbose, mirrors records to
// stderr
func initLogging(logLevel string, verbose bool, stderr io.Writer) (*loggers, error) {
	level, ok := logLevelMap[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelWarn
	}

	logDir := getXDGCacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &loggers{}

	logPath := filepath.Join(logDir, "menuadmin.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l.files = append(l.files, logFile)

	var mainHandler slog.Handler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	if verbose {
		mainHandler = &multiHandler{
			handlers: []slog.Handler{mainHandler, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})},
		}
	}
	l.main = slog.New(mainHandler)
	slog.SetDefault(l.main)

	requestsPath := filepath.Join(logDir, "menuadmin-requests.log")
	requestsFile, err := os.OpenFile(requestsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to open requests log file: %w", err)
	}
	l.files = append(l.files, requestsFile)

	// Request traces are debug records; the file always keeps them
	var requestsHandler slog.Handler = slog.NewJSONHandler(requestsFile, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if verbose {
		requestsHandler = &multiHandler{
			handlers: []slog.Handler{requestsHandler, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})},
		}
	}
	l.requests = slog.New(requestsHandler).With("logger", "requests")

	l.main.Debug("logging initialized",
		"level", level.String(),
		"log_file", logPath,
		"requests_file", requestsPath,
		"verbose", verbose)

	return l, nil
}

// getXDGCacheDir returns the XDG cache directory for menuadmin
func getXDGCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "menuadmin")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "menuadmin")
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Caches", "menuadmin")
	}

	return filepath.Join(homeDir, ".cache", "menuadmin")
}

// getXDGConfigDir returns the XDG config directory for menuadmin
func getXDGConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "menuadmin")
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "menuadmin")
	}
	return filepath.Join(dir, "menuadmin")
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
