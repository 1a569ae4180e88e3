package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dropmount/dropmount/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a textual level into a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var leveler DynamicLeveler

// SetLevel changes the level of loggers built by Setup at runtime.
func SetLevel(level slog.Level) {
	leveler.SetLevel(level)
}

// Setup configures slog from the log configuration and returns the logger.
// If logConfig.File is empty, it logs to stderr only. If a file is
// configured, it logs to both stderr and the file with rotation.
func Setup(logConfig config.LogConfig) *slog.Logger {
	var writer io.Writer = os.Stderr

	if logConfig.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    logConfig.MaxSize,    // MB
			MaxBackups: logConfig.MaxBackups, // number of old files
			MaxAge:     logConfig.MaxAge,     // days
			Compress:   logConfig.Compress,
		}
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	leveler.SetLevel(ParseLevel(logConfig.Level))
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: &leveler,
	})

	return slog.New(WrapHandler(handler))
}
