// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/stakenet/snd/pkg/config"
)

// New builds a logger per cfg.Logs: console-pretty-printed to stderr by
// default, or appended to a file under cfg.Logs.Dir when set. Level
// defaults to info for an empty or unrecognized string.
func New(cfg config.Logs) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err == nil {
			if f, err := os.OpenFile(filepath.Join(cfg.Dir, "snd.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
				out = f
			}
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
