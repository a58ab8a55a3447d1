// Package logx sets up the command line loggers: a compact slog handler
// with coloured levels and the verbosity flags that select its level.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// LevelFromFlags returns the level selected by the verbosity flags:
//   - debug: [slog.LevelDebug]
//   - verbose: [slog.LevelInfo]
//   - quiet: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so debug wins over quiet.
func LevelFromFlags(debug, verbose, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Options configure a [Handler].
type Options struct {
	// Level is the minimum level written. nil means slog.LevelInfo.
	Level slog.Leveler

	// Color enables coloured level labels when the writer supports them.
	Color bool

	// Time adds a timestamp to every record.
	Time bool
}

// Handler writes records as a single line: the level, the message, then
// key=value attributes.
type Handler struct {
	opts   Options
	out    *termenv.Output
	mu     *sync.Mutex
	w      io.Writer
	prefix string // group prefix for attribute keys
	attrs  string // preformatted attributes from WithAttrs
}

// NewHandler returns a handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.Color {
		h.out = termenv.NewOutput(w)
	} else {
		h.out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return h
}

// New returns a logger writing to w at level.
func New(w io.Writer, level slog.Leveler, color bool) *slog.Logger {
	return slog.New(NewHandler(w, &Options{Level: level, Color: color}))
}

// SetDefault installs a logger writing to w at level as the slog default.
func SetDefault(w io.Writer, level slog.Leveler, color bool) *slog.Logger {
	l := New(w, level, color)
	slog.SetDefault(l)
	return l
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if h.opts.Time && !r.Time.IsZero() {
		b.WriteString(r.Time.Format(time.TimeOnly))
		b.WriteByte(' ')
	}
	b.WriteString(h.level(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = b.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func (h *Handler) level(l slog.Level) string {
	label := fmt.Sprintf("%-5s", l.String())
	style := h.out.String(label)
	switch {
	case l >= slog.LevelError:
		style = style.Foreground(termenv.ANSIRed).Bold()
	case l >= slog.LevelWarn:
		style = style.Foreground(termenv.ANSIYellow)
	case l >= slog.LevelInfo:
		style = style.Foreground(termenv.ANSIGreen)
	default:
		style = style.Foreground(termenv.ANSIBrightBlack)
	}
	return style.String()
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			appendAttr(b, prefix, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(quote(a.Value.String()))
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
