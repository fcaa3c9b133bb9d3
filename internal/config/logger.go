package config

import (
	"log/slog"
	"os"
)

const serviceName = "frbox"

// NewLogger builds the process logger: JSON at info level in production,
// text with source locations at debug level everywhere else. Every record
// carries the service name so lines stay attributable once aggregated.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		AddSource: env == EnvDevelopment,
	}

	if env == EnvProduction {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", serviceName))
}
