package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rnovacek/czspot-go/database"
)

type AttrFormat string

const (
	AttrFormatText AttrFormat = "TEXT"
	AttrFormatJSON AttrFormat = "JSON"
)

// DBHandler stores log records in the sqlite log table so the web UI can
// show them. Attributes added with Logger.With are kept and stored ahead
// of the per-record ones.
type DBHandler struct {
	db       *database.Database
	minLevel slog.Level
	format   AttrFormat
	base     []slog.Attr
}

func NewDBHandler(db *database.Database, minLevel slog.Level, format AttrFormat) *DBHandler {
	return &DBHandler{db: db, minLevel: minLevel, format: format}
}

func (h *DBHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *DBHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(h.base)+r.NumAttrs())
	attrs = append(attrs, h.base...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	return h.db.SaveLogEntry(ctx, database.LogEntryRow{
		Timestamp: time.Now(),
		Level:     int(r.Level),
		Message:   r.Message,
		Attrs:     h.formatAttrs(attrs),
	})
}

func (h *DBHandler) formatAttrs(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return ""
	}

	if strings.EqualFold(string(h.format), string(AttrFormatText)) {
		var b strings.Builder
		for _, a := range attrs {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(a.Value.String(), "=", "\\="), ";", "\\;"))
		}
		return b.String()
	}

	kv := make(map[string]string, len(attrs))
	for _, a := range attrs {
		kv[a.Key] = a.Value.String()
	}
	jsonBytes, err := json.Marshal(kv)
	if err != nil {
		return fmt.Sprintf(`{"error": "%v"}`, err)
	}
	return string(jsonBytes)
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.base = append(append([]slog.Attr{}, h.base...), attrs...)
	return &h2
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	return h
}
