package slogutil

import (
	"log/slog"
	"sync/atomic"
)

// DynamicLeveler is a slog.Leveler whose level can change at runtime.
type DynamicLeveler struct {
	level atomic.Value
}

// Level returns the current logging level.
func (dl *DynamicLeveler) Level() slog.Level {
	l, ok := dl.level.Load().(slog.Level)
	if !ok {
		return slog.LevelInfo
	}
	return l
}

// SetLevel updates the logging level.
func (dl *DynamicLeveler) SetLevel(level slog.Level) {
	dl.level.Store(level)
}
