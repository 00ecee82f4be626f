package homeassistant

import (
	"testing"

	"github.com/rnovacek/czspot-go/sensor"
)

func TestSplitEntityID(t *testing.T) {
	component, objectID, ok := splitEntityID("sensor.current_spot_electricity_price")
	if !ok || component != "sensor" || objectID != "current_spot_electricity_price" {
		t.Errorf("unexpected split: %q %q ok=%v", component, objectID, ok)
	}

	if _, _, ok := splitEntityID("no-dot"); ok {
		t.Error("expected malformed id to be rejected")
	}
	if _, _, ok := splitEntityID("sensor."); ok {
		t.Error("expected empty object id to be rejected")
	}
}

func TestStatePayload(t *testing.T) {
	tests := []struct {
		name  string
		state sensor.State
		want  string
	}{
		{"float", sensor.State{Value: 2.5}, "2.500"},
		{"int", sensor.State{Value: 7}, "7"},
		{"nil", sensor.State{}, ""},
		{"binary on", sensor.State{Binary: true, Value: true}, "ON"},
		{"binary off", sensor.State{Binary: true, Value: false}, "OFF"},
		{"binary nil", sensor.State{Binary: true}, "OFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statePayload(tt.state); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
