// Package logging builds the application's slog logger.
//
// Text format goes through tint for readable console output; json format uses
// slog's JSON handler. Logs go to stderr so stdout stays free for the stdio
// transport, or to a size-capped file when a path is configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options selects the logger's level, format and destination.
type Options struct {
	Level  string
	Format string
	Path   string
}

// New returns a logger and a close function for any file it opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if opts.Path != "" {
		fw, err := NewFileWriter(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		w = fw
		closeFn = fw.Close
	}

	return slog.New(NewHandler(w, opts)), closeFn, nil
}

// NewHandler creates the handler for w according to opts.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	level := ParseLevel(opts.Level)
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
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

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
