package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func newJSONHandler(out io.Writer, level *slog.LevelVar, source bool) slog.Handler {
	return slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		AddSource:   source,
		ReplaceAttr: remapJSONAttr,
	})
}

// remapJSONAttr renames the built-in record keys to the repository's wire
// names (ts/level/msg) and flattens source locations to file:line.
func remapJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
		}
		attr.Key = "ts"
		return attr
	case slog.LevelKey:
		return slog.String("level", strings.ToLower(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "msg"
		return attr
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
		}
		return attr
	default:
		return attr
	}
}
