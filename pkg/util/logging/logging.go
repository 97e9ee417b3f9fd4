package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a LOG_LEVEL value to a slog level, info by default.
func ParseLevel(level string) slog.Level {
	logLevel, ok := logLevelMapping[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return slog.LevelInfo
	}
	return logLevel
}

// New builds the JSON logger every record of this node goes through.
func New(w io.Writer, nodeId string, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})).With("node_id", nodeId)
}

func InitDefault(nodeId string) *slog.Logger {
	logger := New(os.Stdout, nodeId, ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)
	return logger
}
