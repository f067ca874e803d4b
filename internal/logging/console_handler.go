package logging

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
)

// consoleHandler renders one human-readable line per record:
//
//	2026-02-11T20:05:31Z INFO masker: fit selected page=007.png index=3
//
// The component field becomes a message prefix; remaining fields render as
// key=value pairs after the message. Attrs attached via With are formatted
// once and reused on every record.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *slog.LevelVar
	source    bool
	component string
	scope     string
	preformat []byte
}

func newConsoleHandler(out io.Writer, level *slog.LevelVar, source bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), out: out, level: level, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	buf := make([]byte, 0, 160+len(h.preformat))
	buf = ts.UTC().AppendFormat(buf, time.RFC3339)
	buf = append(buf, ' ')
	buf = append(buf, record.Level.String()...)
	buf = append(buf, ' ')
	if h.component != "" {
		buf = append(buf, h.component...)
		buf = append(buf, ": "...)
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf = append(buf, msg...)
	} else {
		buf = append(buf, "(no message)"...)
	}
	if h.source {
		if record.PC != 0 {
			frames := runtime.CallersFrames([]uintptr{record.PC})
			frame, _ := frames.Next()
			buf = append(buf, " ["...)
			buf = append(buf, filepath.Base(frame.File)...)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, int64(frame.Line), 10)
			buf = append(buf, ']')
		}
	}
	buf = append(buf, h.preformat...)
	record.Attrs(func(attr slog.Attr) bool {
		buf = appendAttr(buf, h.scope, attr)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	pre := h.preformat[:len(h.preformat):len(h.preformat)]
	for _, attr := range attrs {
		if attr.Key == FieldComponent && h.scope == "" {
			if clone.component == "" {
				clone.component = attrText(attr.Value)
			}
			continue
		}
		pre = appendAttr(pre, h.scope, attr)
	}
	clone.preformat = pre
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if strings.TrimSpace(name) == "" {
		return h
	}
	clone := *h
	clone.scope = scopedKey(h.scope, name)
	return &clone
}

func appendAttr(buf []byte, scope string, attr slog.Attr) []byte {
	if attr.Equal(slog.Attr{}) {
		return buf
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := scope
		if attr.Key != "" {
			inner = scopedKey(scope, attr.Key)
		}
		for _, member := range value.Group() {
			buf = appendAttr(buf, inner, member)
		}
		return buf
	}

	key := scopedKey(scope, attr.Key)
	if key == "" {
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return appendValue(buf, value)
}

func scopedKey(scope, key string) string {
	switch {
	case scope == "":
		return key
	case key == "":
		return scope
	default:
		return scope + "." + key
	}
}

func appendValue(buf []byte, value slog.Value) []byte {
	switch value.Kind() {
	case slog.KindString:
		return appendText(buf, value.String())
	case slog.KindInt64:
		return strconv.AppendInt(buf, value.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, value.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, value.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, value.Bool())
	case slog.KindDuration:
		return appendText(buf, value.Duration().String())
	case slog.KindTime:
		return appendText(buf, value.Time().UTC().Format(time.RFC3339))
	default:
		return appendText(buf, attrText(value))
	}
}

// appendText writes s bare when it is safe to grep, quoted otherwise.
func appendText(buf []byte, s string) []byte {
	if s == "" || strings.IndexFunc(s, unsafeForBareText) >= 0 {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func unsafeForBareText(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

// attrText renders a value as plain text, unwrapping errors to their message.
func attrText(value slog.Value) string {
	value = value.Resolve()
	if value.Kind() == slog.KindAny {
		if err, ok := value.Any().(error); ok {
			return err.Error()
		}
	}
	return value.String()
}
