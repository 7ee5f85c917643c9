package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the application logger: text in dev, JSON in prod or when
// LOG_FORMAT=json.
func NewLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsProd() || cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)).With(slog.String("mode", cfg.AppMode))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
