package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       string // trace|debug|info|warn|error, defaults to info
	Output      io.Writer
}

// New builds the process-wide zerolog logger. All components receive this
// logger by injection; nothing logs through a package-level global.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level)); err == nil && opts.Level != "" {
		level = parsed
	}

	logger := zerolog.New(out).Level(level).With().Timestamp()
	if opts.ServiceName != "" {
		logger = logger.Str("service", opts.ServiceName)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	return logger.Logger()
}

// Nop returns a disabled logger for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
