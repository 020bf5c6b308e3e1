// Package colorlog provides a slog handler that writes short,
// colorized, single-line records.
package colorlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	colorDebug = "\033[90m" // Gray
	colorInfo  = "\033[36m" // Light blue
	colorWarn  = "\033[33m" // Yellow
	colorError = "\033[31m" // Red
	colorReset = "\033[0m"
)

const timeFormat = "2006/01/02 15:04:05"

type ColorLogHandler struct {
	mu     sync.Mutex
	output io.Writer
	label  string
	level  slog.Leveler
}

// New returns a logger writing to stderr at Info level and above.
func New(label string) *slog.Logger {
	return NewWithLevel(label, slog.LevelInfo)
}

// NewWithLevel is New with an explicit minimum level.
func NewWithLevel(label string, level slog.Leveler) *slog.Logger {
	return slog.New(&ColorLogHandler{output: os.Stderr, label: label, level: level})
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func (h *ColorLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *ColorLogHandler) Handle(_ context.Context, r slog.Record) error {
	color := levelToColor(r.Level)

	var b strings.Builder
	b.WriteString(r.Time.Format(timeFormat))
	b.WriteString(" ")
	b.WriteString(h.label)
	b.WriteString(" ")
	b.WriteString(color)
	b.WriteString(r.Message)
	b.WriteString(colorReset)

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s[%s %s%s=%s%v %s]%s",
			colorDebug, colorReset, a.Key, colorDebug, colorReset, a.Value.Any(), colorDebug, colorReset,
		)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.output
	if out == nil {
		out = os.Stderr
	}
	_, err := io.WriteString(out, maybeStripColors(out, b.String()))
	return err
}

func (h *ColorLogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *ColorLogHandler) WithGroup(_ string) slog.Handler {
	return h
}

func levelToColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorError
	case level >= slog.LevelWarn:
		return colorWarn
	case level >= slog.LevelInfo:
		return colorInfo
	default:
		return colorDebug
	}
}

// Colors are kept for anything that is not a file, so buffers in tests
// and pipes into pagers see the raw codes.
func maybeStripColors(out io.Writer, s string) string {
	f, ok := out.(*os.File)
	if !ok || term.IsTerminal(int(f.Fd())) {
		return s
	}
	return stripper.Replace(s)
}

var stripper = strings.NewReplacer(
	colorDebug, "",
	colorInfo, "",
	colorWarn, "",
	colorError, "",
	colorReset, "",
)
