// Package debug provides logging, profiling and buffer checks shared by the
// plugin, the adapter and the command line hosts.
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by ConfigFromEnv. A plugin is loaded by a host
// and cannot take flags, so logging is configured through the environment.
const (
	EnvLogLevel = "FAUSTVST_LOG_LEVEL"
	EnvLogFile  = "FAUSTVST_LOG_FILE"
	EnvDebug    = "FAUSTVST_DEBUG"
)

// Config selects how loggers are built.
type Config struct {
	Level       zapcore.Level
	File        string // empty logs to stderr
	Development bool
}

// ConfigFromEnv reads the logging configuration from the environment.
// Unknown levels fall back to info. FAUSTVST_DEBUG switches to the
// development encoder at debug level unless a level is set explicitly.
func ConfigFromEnv() Config {
	cfg := Config{Level: zapcore.InfoLevel, File: os.Getenv(EnvLogFile)}

	if on, err := strconv.ParseBool(os.Getenv(EnvDebug)); err == nil && on {
		cfg.Development = true
		cfg.Level = zapcore.DebugLevel
	}
	if s := strings.TrimSpace(os.Getenv(EnvLogLevel)); s != "" {
		if lvl, err := zapcore.ParseLevel(s); err == nil {
			cfg.Level = lvl
		}
	}
	return cfg
}

// NewLogger builds a zap logger for cfg.
func NewLogger(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Level)
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// NewWriterLogger returns a console logger writing to w. It is meant for
// tests and tools that capture log output.
func NewWriterLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

var defaultLogger atomic.Pointer[zap.Logger]

// Default returns the process wide logger, building it from the environment
// on first use. If that fails a no-op logger is used.
func Default() *zap.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l, err := NewLogger(ConfigFromEnv())
	if err != nil {
		l = zap.NewNop()
	}
	if !defaultLogger.CompareAndSwap(nil, l) {
		return defaultLogger.Load()
	}
	return l
}

// SetDefault replaces the process wide logger. A nil logger installs a
// no-op logger.
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}
