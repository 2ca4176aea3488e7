package mqttlite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleHandler is a slog.Handler that writes one colored line per record:
//
//	2006-01-02T15:04:05 | INFO  | connected client_id=abc
//
// Colors are disabled automatically when the output is not a terminal.
type ConsoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewConsoleHandler creates a handler writing to w. A nil level means Info.
func NewConsoleHandler(w io.Writer, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{mu: new(sync.Mutex), w: w, level: level}
}

// Enabled reports whether records at level are written.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String()

	switch {
	case r.Level < slog.LevelInfo:
		level = color.MagentaString("%s", level)
	case r.Level < slog.LevelWarn:
		level = color.BlueString("%s", level)
	case r.Level < slog.LevelError:
		level = color.YellowString("%s", level)
	default:
		level = color.RedString("%s", level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %-5s | %s",
		color.GreenString("%s", r.Time.Format("2006-01-02T15:04:05")),
		level,
		color.CyanString("%s", r.Message),
	)

	for _, attr := range h.attrs {
		b.WriteString(color.CyanString(" %s=%v", attr.Key, attr.Value))
	}

	r.Attrs(func(attr slog.Attr) bool {
		b.WriteString(color.CyanString(" %s%s=%v", h.prefix, attr.Key, attr.Value))
		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that writes attrs on every record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		merged = append(merged, attr)
	}

	clone := *h
	clone.attrs = merged
	return &clone
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
