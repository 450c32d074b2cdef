// Package slog provides logging decorators for pagecollect services.
// Each decorator wraps a service interface and logs one structured record
// per call with its key fields, duration, and error.
package slog

import "log/slog"

// levelFor returns level for successful calls and the next level up for
// failed ones.
func levelFor(level slog.Level, err error) slog.Level {
	if err != nil {
		return level + 4
	}
	return level
}
