// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Options struct {
	Level   string // debug, info, warn, error
	NoColor bool
}

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a tint logger writing to stderr. Colors are disabled when
// stderr is not a terminal.
func New(opts Options) *slog.Logger {
	noColor := opts.NoColor || !isatty.IsTerminal(os.Stderr.Fd())
	return NewWithWriter(colorable.NewColorable(os.Stderr), opts.Level, noColor)
}

func NewWithWriter(w io.Writer, level string, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Empty strings add noise to every request line.
			if v, ok := a.Value.Any().(string); ok && v == "" && len(groups) == 0 && a.Key != slog.MessageKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
