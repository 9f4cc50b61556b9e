// Package logging builds the zap loggers used across kuri. Output goes to a
// size-rotated JSON file, optionally teed to a human-readable console.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath   string // Path to log file
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Max number of old log files to keep
	MaxAgeDays int    // Max days to keep old log files
	Level      string // Minimum log level (debug, info, warn, error)

	// Console receives a human-readable copy of every entry when set.
	// Leave it nil while a full-screen UI owns the terminal.
	Console zapcore.WriteSyncer
}

// LoggerProvider hands out scoped loggers.
// Both Manager and the test manager implement it.
type LoggerProvider interface {
	For(scope string) *zap.Logger
}

// Manager owns the base logger and caches one named logger per scope.
type Manager struct {
	baseZap    *zap.Logger
	fileWriter *lumberjack.Logger
	loggers    map[string]*zap.Logger
	mu         sync.RWMutex
	level      zap.AtomicLevel
}

// NewManager creates a log manager with the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("FilePath is required")
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(fileWriter), level),
	}

	if cfg.Console != nil {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.TimeKey = ""
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), cfg.Console, level))
	}

	return &Manager{
		baseZap:    zap.New(zapcore.NewTee(cores...)),
		fileWriter: fileWriter,
		loggers:    make(map[string]*zap.Logger),
		level:      level,
	}, nil
}

// For returns a logger for the given scope.
// Loggers are cached and reused for the same scope.
func (m *Manager) For(scope string) *zap.Logger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := m.baseZap.Named(scope)
	m.loggers[scope] = logger
	return logger
}

// SetLevel changes the minimum level of every logger handed out.
func (m *Manager) SetLevel(level zapcore.Level) {
	m.level.SetLevel(level)
}

// Level returns the current minimum level.
func (m *Manager) Level() zapcore.Level {
	return m.level.Level()
}

// FilePath returns the log file location.
func (m *Manager) FilePath() string {
	return m.fileWriter.Filename
}

// Sync flushes all buffered logs.
func (m *Manager) Sync() error {
	return m.baseZap.Sync()
}

// Close syncs and closes the log file.
func (m *Manager) Close() error {
	_ = m.Sync()
	return m.fileWriter.Close()
}
