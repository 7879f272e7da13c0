package logger

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Attribute keys the handler lifts out of the key=value tail.
const (
	keyProject  = "project"
	keyRunID    = "run_id"
	keyPath     = "path"
	keyCategory = "category"
)

const shortRunID = 8

type HandlerOptions struct {
	Level     slog.Leveler
	AddSource bool
	// Timestamps prefixes every line with the record time. Service logs end
	// up in the journal or a file, where the terminal has no clock.
	Timestamps bool
	// Plain disables colour regardless of the terminal.
	Plain bool
}

// CycleHandler writes one line per record, shaped around commit cycles:
//
//	[INFO]  myapp@1f2e3d4c committed src/main.go (feat) pending=3
//
// The project and the cycle's run id become a scope prefix, and a file
// path with its category follows the message. Everything else is key=value.
type CycleHandler struct {
	opts  HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
	group string
}

func NewCycleHandler(w io.Writer, opts HandlerOptions) *CycleHandler {
	return &CycleHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *CycleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

type line struct {
	project, runID, path, category string
	rest                           []string
}

func (h *CycleHandler) Handle(_ context.Context, r slog.Record) error {
	var l line
	for _, a := range h.attrs {
		h.collect(&l, a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		h.collect(&l, a, h.group)
		return true
	})

	var buf strings.Builder
	if h.opts.Timestamps && !r.Time.IsZero() {
		buf.WriteString(r.Time.Format(time.RFC3339))
		buf.WriteString(" ")
	}
	buf.WriteString(h.badge(r.Level))
	buf.WriteString(" ")
	if scope := l.scope(); scope != "" {
		buf.WriteString(h.paint(color.FgCyan, scope))
		buf.WriteString(" ")
	}
	buf.WriteString(r.Message)
	if l.path != "" {
		buf.WriteString(" ")
		buf.WriteString(l.path)
	}
	if l.category != "" {
		buf.WriteString(" ")
		buf.WriteString(h.paint(color.FgCyan, "("+l.category+")"))
	}
	for _, attr := range l.rest {
		buf.WriteString(" ")
		buf.WriteString(attr)
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(h.paint(color.FgHiBlack, "("+filepath.Base(frame.File)+":"+strconv.Itoa(frame.Line)+")"))
		}
	}
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

// collect sorts one attribute into the scope, the file subject or the tail.
// Only ungrouped attributes are lifted.
func (h *CycleHandler) collect(l *line, a slog.Attr, group string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if group == "" {
		switch a.Key {
		case keyProject:
			l.project = a.Value.String()
			return
		case keyRunID:
			l.runID = a.Value.String()
			return
		case keyPath:
			l.path = a.Value.String()
			return
		case keyCategory:
			l.category = a.Value.String()
			return
		}
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	l.rest = append(l.rest, h.formatAttr(key, a.Value.String()))
}

func (l line) scope() string {
	run := l.runID
	if len(run) > shortRunID {
		run = run[:shortRunID]
	}
	switch {
	case l.project != "" && run != "":
		return l.project + "@" + run
	case run != "":
		return "@" + run
	default:
		return l.project
	}
}

func (h *CycleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *CycleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func (h *CycleHandler) badge(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.paint(color.FgRed, "[ERROR]")
	case level >= slog.LevelWarn:
		return h.paint(color.FgYellow, "[WARN] ")
	case level >= slog.LevelInfo:
		return h.paint(color.FgCyan, "[INFO] ")
	default:
		return h.paint(color.FgHiBlack, "[DEBUG]")
	}
}

func (h *CycleHandler) formatAttr(key, val string) string {
	kv := key + "=" + val
	switch key {
	case "error", "failed":
		return h.paint(color.FgRed, kv)
	case "interval", "debounce", "duration":
		return h.paint(color.FgMagenta, kv)
	case "committed", "pending", "remaining":
		return h.paint(color.FgGreen, kv)
	default:
		return h.paint(color.FgHiBlack, kv)
	}
}

func (h *CycleHandler) paint(attr color.Attribute, s string) string {
	if h.opts.Plain {
		return s
	}
	return color.New(attr).Sprint(s)
}
