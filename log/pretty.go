package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indices used by the pretty handler.
const (
	colorGray    = lipgloss.Color("8")
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
)

// prettyStyles holds the styles of one output. Colors are dropped
// automatically when the output is not a terminal.
type prettyStyles struct {
	key, str, num, time, dur, on, off, debug, info, warn, err lipgloss.Style
}

func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	fg := func(c lipgloss.Color) lipgloss.Style { return r.NewStyle().Foreground(c) }

	return prettyStyles{
		key:   fg(colorGray),
		str:   fg(colorCyan),
		num:   fg(colorYellow),
		time:  fg(colorBlue),
		dur:   fg(colorMagenta),
		on:    fg(colorGreen),
		off:   fg(colorRed),
		debug: fg(colorBlue),
		info:  fg(colorGreen),
		warn:  fg(colorYellow).Bold(true),
		err:   fg(colorRed).Bold(true),
	}
}

func (s prettyStyles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.err
	case l >= slog.LevelWarn:
		return s.warn
	case l >= slog.LevelInfo:
		return s.info
	default:
		return s.debug
	}
}

// prettyHandler is a slog.Handler producing styled text or indented JSON.
// Groups are flattened into dotted keys.
type prettyHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	styles prettyStyles
	attrs  []slog.Attr // qualified attributes added by WithAttrs
	prefix string      // qualifier for attributes of subsequent records
	format Format
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   opts,
		mu:     &sync.Mutex{},
		w:      w,
		styles: makePrettyStyles(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(h.prefix, attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// replace applies the configured ReplaceAttr to a built-in attribute.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); !a.Equal(slog.Attr{}) {
			fields = append(fields, a)
		}
	}

	fields = append(fields, h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	fields = append(fields, qualify(h.prefix, attrs)...)

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeJSON(&buf, r.Level, fields)
	} else {
		h.writeText(&buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.styles.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a, level, false))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.styles.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.value(a, level, true))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

// value renders the value of a, quoting strings if quote is set.
func (h *prettyHandler) value(a slog.Attr, level slog.Level, quote bool) string {
	v := a.Value
	str := func(s string) string {
		if quote {
			s = strconv.Quote(s)
		}

		return s
	}

	if a.Key == slog.LevelKey {
		return h.styles.level(level).Render(str(v.String()))
	}

	switch v.Kind() {
	case slog.KindInt64:
		return h.styles.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.styles.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.styles.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.styles.on.Render("true")
		}

		return h.styles.off.Render("false")
	case slog.KindDuration:
		return h.styles.dur.Render(str(v.Duration().String()))
	case slog.KindTime:
		return h.styles.time.Render(str(v.Time().String()))
	case slog.KindString:
		if a.Key == slog.TimeKey {
			return h.styles.time.Render(str(v.String()))
		}

		return h.styles.str.Render(str(v.String()))
	default:
		return h.styles.str.Render(str(v.String()))
	}
}

// qualify resolves attrs and flattens groups into keys prefixed by prefix.
// Empty attributes and empty groups are dropped.
func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	var out []slog.Attr

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() != slog.KindGroup {
			a.Key = prefix + a.Key
			out = append(out, a)

			continue
		}

		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}

		out = append(out, qualify(sub, a.Value.Group())...)
	}

	return out
}
