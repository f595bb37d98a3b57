package util

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	baseMu  sync.RWMutex
	baseLog = zap.NewNop().Sugar()
)

// InitLogging builds the process-wide zap logger. mode selects the production
// or development encoder; level is a zap level name (debug, info, warn, error).
func InitLogging(mode, level string) (func(), error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build()
	if err != nil {
		return func() {}, fmt.Errorf("build logger: %w", err)
	}

	baseMu.Lock()
	baseLog = zl.Sugar()
	baseMu.Unlock()

	return func() { _ = zl.Sync() }, nil
}

func base() *zap.SugaredLogger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return baseLog
}

// Logger provides consistent logging across services
type Logger struct {
	prefix string
}

// NewLogger creates a new logger with a prefix
func NewLogger(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

func (l *Logger) sugar() *zap.SugaredLogger {
	return base().Named(l.prefix)
}

// Start logs the start of a process
func (l *Logger) Start(name string) {
	l.sugar().Debugf(LogStart, name)
}

// End logs the end of a process
func (l *Logger) End(name string) {
	l.sugar().Debugf(LogEnd, name)
}

// Section logs a section header
func (l *Logger) Section(name string) {
	l.sugar().Debugf(LogSection, name)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.sugar().Errorw(msg, "error", err)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, err error) {
	l.sugar().Warnw(msg, "error", err)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar().Infof(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar().Debugf(format, args...)
}

// JSON logs data as formatted JSON
func (l *Logger) JSON(label string, data interface{}) {
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	l.sugar().Debugf("%s:\n%s", label, string(jsonBytes))
}

// Success logs a success message
func (l *Logger) Success(msg string) {
	l.sugar().Infof("✓ %s", msg)
}

// KeyValue logs key-value pairs
func (l *Logger) KeyValue(pairs ...interface{}) {
	l.sugar().Infow("", pairs...)
}
