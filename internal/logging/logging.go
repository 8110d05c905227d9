// Package logging defines the structured logger used across the engine.
//
// Components accept a Logger and never reach for a global. Use NewSlog to
// back it with log/slog, or Nop when output is not wanted.
package logging

import "log/slog"

// Logger is a leveled key/value logger.
type Logger interface {
	Info(msg string, keyValues ...any)
	Error(msg string, keyValues ...any)
	Debug(msg string, keyValues ...any)
	Warn(msg string, keyValues ...any)
}

// SlogAdapter forwards to a *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlog wraps logger. A nil logger falls back to slog.Default().
func NewSlog(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Info(msg string, keyValues ...any) {
	a.logger.Info(msg, keyValues...)
}

func (a *SlogAdapter) Error(msg string, keyValues ...any) {
	a.logger.Error(msg, keyValues...)
}

func (a *SlogAdapter) Debug(msg string, keyValues ...any) {
	a.logger.Debug(msg, keyValues...)
}

func (a *SlogAdapter) Warn(msg string, keyValues ...any) {
	a.logger.Warn(msg, keyValues...)
}

// With returns an adapter that adds keyValues to every record.
func (a *SlogAdapter) With(keyValues ...any) *SlogAdapter {
	return &SlogAdapter{logger: a.logger.With(keyValues...)}
}

type nop struct{}

func (nop) Info(string, ...any)  {}
func (nop) Error(string, ...any) {}
func (nop) Debug(string, ...any) {}
func (nop) Warn(string, ...any)  {}

// Nop discards everything.
var Nop Logger = nop{}
