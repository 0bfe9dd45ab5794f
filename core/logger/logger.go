package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
	lvl  = new(slog.LevelVar)
)

func instance() *slog.Logger {
	once.Do(func() {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	})
	return log
}

// SetLevel sets the minimum log level: "debug", "info", "warn" or "error".
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}
}

func Debug(msg string, args ...any) {
	instance().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	instance().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	instance().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	instance().Error(msg, normalize(args)...)
}

// normalize allows the common call shape Error("Repo:Method", err) in addition
// to key/value pairs.
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
	}
	return args
}
