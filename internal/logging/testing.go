package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// nopProvider hands out loggers that discard everything.
type nopProvider struct{}

func (nopProvider) For(string) *zap.Logger { return zap.NewNop() }

// Nop returns a provider whose loggers discard all output.
func Nop() LoggerProvider {
	return nopProvider{}
}

// TestManager records entries in memory for assertions.
type TestManager struct {
	baseZap *zap.Logger
	logs    *observer.ObservedLogs
}

// NewTestManager creates a provider capturing every entry at debug level and above.
func NewTestManager() *TestManager {
	core, logs := observer.New(zapcore.DebugLevel)
	return &TestManager{
		baseZap: zap.New(core),
		logs:    logs,
	}
}

// For returns a named logger writing to the in-memory log.
func (m *TestManager) For(scope string) *zap.Logger {
	return m.baseZap.Named(scope)
}

// Logs returns the captured entries.
func (m *TestManager) Logs() *observer.ObservedLogs {
	return m.logs
}
