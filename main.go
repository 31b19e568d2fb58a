package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	s := &Server{cfg: cfg, logger: logger}
	e := newEcho(s)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Info("wire router listening",
		"addr", addr,
		"padding", cfg.Routing.Padding,
		"spacing", cfg.Routing.Spacing)

	if err := e.Start(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newLogger creates the service slog.Logger: JSON by default, text when
// log.pretty is set.
func newLogger(cfg *Config) *slog.Logger {
	level := parseLogLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Pretty {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
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
