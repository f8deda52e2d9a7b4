package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/mailwatch/internal/config"
)

// NewLogger creates a JSON zerolog.Logger on stdout carrying the service
// identity fields that are set in cfg.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	if cfg.Environment != "" {
		ctx = ctx.Str("environment", cfg.Environment)
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		ctx = ctx.Str("hostname", hostname)
	}

	return ctx.Logger().Level(ParseLevel(cfg.LogLevel))
}

// ParseLevel parses a zerolog level name, falling back to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
