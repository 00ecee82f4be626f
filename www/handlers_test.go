package www

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/sensor"
	"github.com/rnovacek/czspot-go/spot"
	"github.com/rnovacek/czspot-go/types"
)

func TestPricesHandlerNoData(t *testing.T) {
	h := NewPricesHandler(slog.Default(), spot.NewHolder())

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/prices", nil))

	if rec.Code != 503 {
		t.Errorf("expected 503 before the first snapshot, got %d", rec.Code)
	}
}

func TestPricesHandler(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, hours.Prague())
	snap := spot.Build(spot.BuildInput{
		Now:      day,
		Currency: "CZK",
		Unit:     "kWh",
		TodayRaw: []types.HourPrice{
			{Hour: 1, Price: 100},
			{Hour: 2, Price: 200},
		},
		FxRate:     25,
		UnitFactor: 0.001,
	}, slog.Default())

	holder := spot.NewHolder()
	holder.Swap(snap)
	h := NewPricesHandler(slog.Default(), holder)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/prices", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload pricesPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.Currency != "CZK" || payload.Unit != "kWh" {
		t.Errorf("unexpected currency/unit: %s/%s", payload.Currency, payload.Unit)
	}
	flow, ok := payload.Flows["spot"]
	if !ok {
		t.Fatal("missing spot flow")
	}
	if len(flow.Today) != 2 || len(flow.Tomorrow) != 0 {
		t.Fatalf("unexpected series sizes: %d today, %d tomorrow", len(flow.Today), len(flow.Tomorrow))
	}
	if flow.Today[0].Price != 2.5 {
		t.Errorf("expected converted price 2.5, got %v", flow.Today[0].Price)
	}

	if rec.Result().Header.Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}
}

func TestSensorsHandler(t *testing.T) {
	states := []sensor.State{
		{EntityID: "sensor.current_spot_electricity_price", Name: "Current electricity price", Value: 2.5, Available: true},
	}
	h := NewSensorsHandler(slog.Default(), func() []sensor.State { return states })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/sensors", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Sensors []sensorPayload `json:"sensors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if len(payload.Sensors) != 1 || payload.Sensors[0].EntityID != "sensor.current_spot_electricity_price" {
		t.Errorf("unexpected sensors payload: %+v", payload.Sensors)
	}

	empty := NewSensorsHandler(slog.Default(), func() []sensor.State { return nil })
	rec = httptest.NewRecorder()
	empty(rec, httptest.NewRequest("GET", "/api/sensors", nil))
	if rec.Code != 503 {
		t.Errorf("expected 503 without sensor data, got %d", rec.Code)
	}
}

func TestIntOrDefault(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/log?page=3&pageSize=bad", nil)
	if got := intOrDefault(req.URL, "page", 1); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := intOrDefault(req.URL, "pageSize", 25); got != 25 {
		t.Errorf("expected default 25, got %d", got)
	}
}
