// Package logger builds slog loggers for the command line tools.
//
// Text output colors WARN records yellow, ERROR records red and persistence
// messages ("Persisting ...", "Persisted ...", "Loaded ...") green when the
// destination is a terminal.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// Options configures NewLogger
type Options struct {
	// Level is the minimum level to emit
	Level slog.Level

	// Format is "text" (default) or "json"
	Format string

	// Color forces colored text output on or off; nil detects a terminal
	Color *bool
}

// ColorHandler is a slog.Handler writing one colored text line per record.
type ColorHandler struct {
	w     io.Writer
	opts  slog.HandlerOptions
	color bool
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

// NewColorHandler creates a ColorHandler writing to w. Colors are enabled
// only when w is a terminal.
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	h := &ColorHandler{w: w, mu: &sync.Mutex{}, color: isTerminal(w)}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Enabled implements slog.Handler
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle implements slog.Handler
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format("15:04:05.000"))
		b.WriteByte(' ')
	}
	color := h.colorFor(r)
	if color != "" {
		b.WriteString(color)
	}
	fmt.Fprintf(&b, "%-5s %s", r.Level.String(), r.Message)
	if color != "" {
		b.WriteString(colorReset)
	}

	writeAttr := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		if h.color {
			fmt.Fprintf(&b, " %s%s=%s%v", colorGray, key, colorReset, a.Value.Resolve())
		} else {
			fmt.Fprintf(&b, " %s=%v", key, a.Value.Resolve())
		}
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ColorHandler) colorFor(r slog.Record) string {
	if !h.color {
		return ""
	}
	switch {
	case r.Level >= slog.LevelError:
		return colorRed
	case r.Level >= slog.LevelWarn:
		return colorYellow
	case isPersistence(r.Message):
		return colorGreen
	}
	return ""
}

func isPersistence(msg string) bool {
	for _, prefix := range []string{"Persisting", "Persisted", "Loaded"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// WithAttrs implements slog.Handler
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

// WithGroup implements slog.Handler
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	c := *h
	if c.group != "" {
		name = c.group + "." + name
	}
	c.group = name
	return &c
}

// NewDefaultLogger creates a colored text logger on stderr.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	h := NewColorHandler(w, handlerOpts)
	if opts.Color != nil {
		h.color = *opts.Color
	}
	return slog.New(h)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
