package internal

import "log/slog"

// Logger is an alias for slog.Logger so Config can name a logger type
// without every caller importing log/slog directly.
type Logger = slog.Logger

// SlogLogger returns l, or slog.Default() if l is nil. Every constructor in
// this package that accepts a logger funnels it through here so "no logger
// configured" has one meaning.
func SlogLogger(l *Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
