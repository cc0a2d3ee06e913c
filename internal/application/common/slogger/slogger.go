// Package slogger is the process-wide logging facade. Packages log through it without
// carrying a logger around; the CLI replaces the default logger with Configure.
package slogger

import (
	"context"
	"sync"

	"tree-sitter-ucode/internal/application/common/logging"
)

// Fields is an alias for logging.Fields for convenience.
type Fields = logging.Fields

// holder owns the global logger. The default logger is built lazily on first use.
type holder struct {
	mu     sync.RWMutex
	logger logging.ApplicationLogger
}

//nolint:gochecknoglobals // Required for singleton logging infrastructure
var global = &holder{}

// defaultConfig writes warnings and errors to stderr as text.
func defaultConfig() logging.Config {
	return logging.Config{Level: "WARN", Format: "text", Output: "stderr"}
}

func (h *holder) get() logging.ApplicationLogger {
	h.mu.RLock()
	logger := h.logger
	h.mu.RUnlock()
	if logger != nil {
		return logger
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.logger == nil {
		logger, err := logging.NewApplicationLogger(defaultConfig())
		if err != nil {
			panic("slogger: invalid default logger configuration: " + err.Error())
		}
		h.logger = logger
	}
	return h.logger
}

func (h *holder) set(logger logging.ApplicationLogger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// Configure replaces the global logger with one built from config.
func Configure(config logging.Config) error {
	logger, err := logging.NewApplicationLogger(config)
	if err != nil {
		return err
	}
	SetGlobalLogger(logger)
	return nil
}

// SetGlobalLogger replaces the global logger.
func SetGlobalLogger(logger logging.ApplicationLogger) {
	global.set(logger)
}

// Debug logs a debug message with context.
func Debug(ctx context.Context, msg string, fields Fields) {
	global.get().Debug(ctx, msg, fields)
}

// Info logs an info message with context.
func Info(ctx context.Context, msg string, fields Fields) {
	global.get().Info(ctx, msg, fields)
}

// Warn logs a warning message with context.
func Warn(ctx context.Context, msg string, fields Fields) {
	global.get().Warn(ctx, msg, fields)
}

// Error logs an error message with context.
func Error(ctx context.Context, msg string, fields Fields) {
	global.get().Error(ctx, msg, fields)
}

// ErrorWithError logs msg together with err.
func ErrorWithError(ctx context.Context, err error, msg string, fields Fields) {
	global.get().ErrorWithError(ctx, err, msg, fields)
}

// Field creates a single-field Fields map.
func Field(key string, value interface{}) Fields {
	return Fields{key: value}
}

// WithComponent returns the global logger tagged with a component name.
func WithComponent(component string) logging.ApplicationLogger {
	return global.get().WithComponent(component)
}
