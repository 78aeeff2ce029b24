// Package log sets up the process logger and carries it through contexts.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures the process logger. A nil Out means stdout.
type Options struct {
	Out    io.Writer
	Debug  bool
	Format Format
}

// NewContextWithLogger installs a console logger on stdout.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return NewContext(ctx, Options{Debug: debug})
}

// NewContext installs the global logger described by opts and returns a
// context carrying it. The returned func flushes buffered lines.
func NewContext(ctx context.Context, opts Options) (context.Context, func()) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// Writes go through a ring buffer so a slow terminal never blocks callers.
	wr := diode.NewWriter(out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "log: dropped %d messages\n", missed)
	})

	var sink io.Writer = wr
	if opts.Format != FormatJSON {
		sink = zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
			NoColor:    out != os.Stdout,
			PartsOrder: []string{
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	log.Logger = zerolog.New(sink).With().Timestamp().Logger()

	return log.Logger.WithContext(ctx), func() {
		_ = wr.Close()
	}
}

// ParseFormat maps a setting such as AIDE_LOG_FORMAT to a Format. Unknown
// values fall back to console output.
func ParseFormat(s string) Format {
	if Format(s) == FormatJSON {
		return FormatJSON
	}
	return FormatConsole
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
