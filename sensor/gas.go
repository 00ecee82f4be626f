package sensor

import (
	"fmt"

	"github.com/rnovacek/czspot-go/spot"
)

func gasStates(g spot.GasDay, trade Trade, priceUnit string) []State {
	today := State{
		EntityID: fmt.Sprintf("sensor.current_%s_gas_price", trade),
		Name:     "Current gas price",
		Icon:     tradeIcon(trade),
		Unit:     priceUnit,
	}
	if price, ok := g.Current().Get(); ok {
		today.Value = price
		today.Attrs = map[string]any{}
		today.Available = true
	} else {
		today = unavailable(today)
	}

	tomorrow := State{
		EntityID: fmt.Sprintf("sensor.tomorrow_%s_gas_price", trade),
		Name:     "Tomorrow gas price",
		Icon:     tradeIcon(trade),
		Unit:     priceUnit,
	}
	if price, ok := g.Tomorrow.Get(); ok {
		tomorrow.Value = price
		tomorrow.Attrs = map[string]any{}
		tomorrow.Available = true
	} else {
		tomorrow = unavailable(tomorrow)
	}

	states := []State{today, tomorrow}

	if trade == TradeSpot {
		states = append(states, State{
			EntityID:  fmt.Sprintf("binary_sensor.%s_gas_has_tomorrow_data", trade),
			Name:      "Gas has tomorrow data",
			Icon:      "mdi:cash-clock",
			Binary:    true,
			Value:     g.HasTomorrowData(),
			Attrs:     map[string]any{},
			Available: true,
		})
	}

	return states
}
