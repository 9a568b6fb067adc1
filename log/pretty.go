package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles holds the lipgloss styles used for each part of a record.
type prettyStyles struct {
	time, key, msg, source lipgloss.Style
	level                  map[Level]lipgloss.Style
}

func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)

	return prettyStyles{
		time:   r.NewStyle().Foreground(lipgloss.Color("8")),
		key:    r.NewStyle().Faint(true),
		msg:    r.NewStyle().Bold(true),
		source: r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		level: map[Level]lipgloss.Style{
			LevelTrace: r.NewStyle().Foreground(lipgloss.Color("8")),
			LevelDebug: r.NewStyle().Foreground(lipgloss.Color("12")),
			LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("10")),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("11")),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (s prettyStyles) levelStyle(l Level) lipgloss.Style {
	for _, named := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if l >= named {
			return s.level[named]
		}
	}

	return s.level[LevelTrace]
}

// prettyHandler is a [slog.Handler] writing compact, styled, single-line
// records meant for a terminal:
//
//	3:04PM INFO  message key=value other="quoted value"
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	styles     prettyStyles
	mu         *sync.Mutex
	w          io.Writer
	group      string // dotted prefix for attribute keys
	attrs      []byte // preformatted attributes from WithAttrs
}

func newPrettyHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		styles:     makePrettyStyles(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.styles.time.Render(ts))
			buf.WriteByte(' ')
		}
	}

	level := Level(r.Level)
	label := strings.ToUpper(level.String())

	buf.WriteString(h.styles.levelStyle(level).Render(label))
	buf.WriteString(strings.Repeat(" ", max(1, 6-len(label))))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			loc := filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
			buf.WriteString(h.styles.source.Render(loc))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.styles.msg.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	buf.Write(h.attrs)

	for _, a := range attrs {
		h.appendAttr(&buf, h.group, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, group, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(prefix + a.Key + "="))
	buf.WriteString(prettyValue(a.Value))
}

// prettyValue renders v without quotes unless it is empty or contains
// whitespace, quotes, or '='.
func prettyValue(v slog.Value) string {
	s := v.String()

	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}

	return s
}
