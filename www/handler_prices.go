package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rnovacek/czspot-go/convert"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/spot"
)

type pricePayload struct {
	At    string  `json:"at"`
	Price float64 `json:"price"`
}

type flowPayload struct {
	Today    []pricePayload `json:"today"`
	Tomorrow []pricePayload `json:"tomorrow"`
}

type pricesPayload struct {
	BuiltAt  string                 `json:"builtAt"`
	Currency string                 `json:"currency"`
	Unit     string                 `json:"unit"`
	Flows    map[string]flowPayload `json:"flows"`
}

func NewPricesHandler(logger *slog.Logger, holder *spot.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snap := holder.Current()
		if snap == nil {
			http.Error(w, "no price data yet", http.StatusServiceUnavailable)
			return
		}

		payload := pricesPayload{
			BuiltAt:  snap.BuiltAt.Format(time.RFC3339),
			Currency: snap.Currency,
			Unit:     snap.Unit,
			Flows:    map[string]flowPayload{"spot": windowPayload(snap.Electricity.Spot)},
		}
		if snap.Electricity.Buy != nil {
			payload.Flows["buy"] = windowPayload(*snap.Electricity.Buy)
		}
		if snap.Electricity.Sell != nil {
			payload.Flows["sell"] = windowPayload(*snap.Electricity.Sell)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("handling prices request", slog.Any("error", err))
		}
	}
}

func windowPayload(win spot.TwoDayWindow) flowPayload {
	return flowPayload{
		Today:    seriesPayload(win.Today),
		Tomorrow: seriesPayload(win.Tomorrow),
	}
}

func seriesPayload(s spot.PriceSeries) []pricePayload {
	payload := make([]pricePayload, 0, s.Len())
	for _, p := range s.Points() {
		payload = append(payload, pricePayload{
			At:    hours.FormatInDisplayTimezone(p.At),
			Price: convert.ThreeDecimals(p.Price),
		})
	}
	return payload
}
