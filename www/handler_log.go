package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rnovacek/czspot-go/database"
)

type logEntryPayload struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Attrs     string `json:"attrs,omitempty"`
}

func NewLogHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		page := intOrDefault(r.URL, "page", 1)
		pageSize := intOrDefault(r.URL, "pageSize", 25)

		entries, err := db.GetLogEntries(r.Context(), slog.LevelDebug, page, pageSize)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		payload := make([]logEntryPayload, 0, len(entries))
		for _, e := range entries {
			payload = append(payload, logEntryPayload{
				Timestamp: e.Timestamp.Format(time.RFC3339),
				Level:     slog.Level(e.Level).String(),
				Message:   e.Message,
				Attrs:     e.Attrs,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"page":     page,
			"pageSize": pageSize,
			"entries":  payload,
		}); err != nil {
			logger.Error("handling log request", slog.Any("error", err))
		}
	}
}
