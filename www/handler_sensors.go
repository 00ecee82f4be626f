package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rnovacek/czspot-go/sensor"
)

type sensorPayload struct {
	EntityID  string         `json:"entityId"`
	Name      string         `json:"name"`
	Unit      string         `json:"unit,omitempty"`
	Value     any            `json:"value"`
	Attrs     map[string]any `json:"attrs"`
	Available bool           `json:"available"`
}

func sensorsPayload(builtAt time.Time, states []sensor.State) map[string]any {
	payload := make([]sensorPayload, 0, len(states))
	for _, s := range states {
		payload = append(payload, sensorPayload{
			EntityID:  s.EntityID,
			Name:      s.Name,
			Unit:      s.Unit,
			Value:     s.Value,
			Attrs:     s.Attrs,
			Available: s.Available,
		})
	}
	return map[string]any{
		"builtAt": builtAt.Format(time.RFC3339),
		"sensors": payload,
	}
}

func NewSensorsHandler(logger *slog.Logger, latest func() []sensor.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		states := latest()
		if states == nil {
			http.Error(w, "no sensor data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sensorsPayload(time.Now(), states)); err != nil {
			logger.Error("handling sensors request", slog.Any("error", err))
		}
	}
}
