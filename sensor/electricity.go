package sensor

import (
	"fmt"
	"time"

	"github.com/rnovacek/czspot-go/convert"
	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/spot"
)

func electricityStates(w spot.TwoDayWindow, trade Trade, now time.Time, priceUnit string, opts Options) []State {
	states := []State{
		currentPriceState(w, trade, now, priceUnit),
		extremeState(w.TodayMin, trade, "cheapest", "Cheapest", "today", priceUnit),
		extremeState(w.TodayMax, trade, "most_expensive", "Most expensive", "today", priceUnit),
		extremeState(w.TomorrowMin, trade, "cheapest", "Cheapest", "tomorrow", priceUnit),
		extremeState(w.TomorrowMax, trade, "most_expensive", "Most expensive", "tomorrow", priceUnit),
		currentOrderState(w, trade, now),
		tomorrowOrderState(w, trade),
	}

	for _, length := range opts.BlockLengths {
		states = append(states, cheapestBlockState(w, trade, now, length, opts.CrossMidnight))
	}

	if trade == TradeSpot {
		states = append(states, State{
			EntityID:  fmt.Sprintf("binary_sensor.%s_electricity_has_tomorrow_data", trade),
			Name:      "Electricity has tomorrow data",
			Icon:      "mdi:cash-clock",
			Binary:    true,
			Value:     w.HasTomorrowData(),
			Attrs:     map[string]any{},
			Available: true,
		})
	}

	return states
}

// currentPriceState carries the full two day price curve in its
// attributes, keyed by the localized hour start.
func currentPriceState(w spot.TwoDayWindow, trade Trade, now time.Time, priceUnit string) State {
	s := State{
		EntityID: fmt.Sprintf("sensor.current_%s_electricity_price", trade),
		Name:     "Current electricity price",
		Icon:     tradeIcon(trade),
		Unit:     priceUnit,
	}

	cur, ok := w.CurrentPrice(now)
	if !ok {
		return unavailable(s)
	}

	attrs := make(map[string]any, w.Today.Len()+w.Tomorrow.Len())
	for _, p := range w.Today.Points() {
		attrs[hours.FormatInDisplayTimezone(p.At)] = p.Price
	}
	for _, p := range w.Tomorrow.Points() {
		attrs[hours.FormatInDisplayTimezone(p.At)] = p.Price
	}

	s.Value = cur.Price
	s.Attrs = attrs
	s.Available = true
	return s
}

func extremeState(find func() (spot.PricePoint, error), trade Trade, kind, label, day, priceUnit string) State {
	s := State{
		EntityID: fmt.Sprintf("sensor.%s_%s_electricity_%s", trade, kind, day),
		Name:     fmt.Sprintf("%s electricity %s", label, day),
		Icon:     tradeIcon(trade),
		Unit:     priceUnit,
	}

	p, err := find()
	if err != nil {
		return unavailable(s)
	}

	local := p.At.In(hours.DisplayLocation())
	s.Value = p.Price
	s.Attrs = map[string]any{
		"at":   local.Format(time.RFC3339),
		"hour": local.Hour(),
	}
	s.Available = true
	return s
}

// currentOrderState reports where the running hour sits in today's
// cheapness order, 1 meaning the cheapest hour of the day.
func currentOrderState(w spot.TwoDayWindow, trade Trade, now time.Time) State {
	s := State{
		EntityID: fmt.Sprintf("sensor.current_%s_electricity_hour_order", trade),
		Name:     "Current electricity hour order",
		Icon:     "mdi:hours-24",
	}

	rank, ok := w.CurrentRank(now)
	if !ok {
		return unavailable(s)
	}

	s.Value = rank
	s.Attrs = orderAttrs(w.TodayRanks())
	s.Available = true
	return s
}

func tomorrowOrderState(w spot.TwoDayWindow, trade Trade) State {
	s := State{
		EntityID: fmt.Sprintf("sensor.tomorrow_%s_electricity_hour_order", trade),
		Name:     "Tomorrow electricity hour order",
		Icon:     "mdi:hours-24",
	}

	if !w.HasTomorrowData() {
		return unavailable(s)
	}

	s.Attrs = orderAttrs(w.TomorrowRanks())
	s.Available = true
	return s
}

func orderAttrs(ranks []spot.RankedHour) map[string]any {
	attrs := make(map[string]any, len(ranks))
	for _, r := range ranks {
		attrs[hours.FormatInDisplayTimezone(r.At)] = []any{r.Rank, convert.ThreeDecimals(r.Price)}
	}
	return attrs
}

// cheapestBlockState is on while now sits inside the cheapest run of
// `length` consecutive hours. The attributes describe the winning block
// while it is still current or upcoming; a block that already passed
// keeps its keys with null values.
func cheapestBlockState(w spot.TwoDayWindow, trade Trade, now time.Time, length int, crossMidnight bool) State {
	s := State{
		Icon:   "mdi:cash-clock",
		Binary: true,
	}
	if length == 1 {
		s.EntityID = fmt.Sprintf("binary_sensor.%s_electricity_is_cheapest", trade)
		s.Name = "Electricity is cheapest"
	} else {
		s.EntityID = fmt.Sprintf("binary_sensor.%s_electricity_is_cheapest_%d_hours_block", trade, length)
		s.Name = fmt.Sprintf("Electricity is cheapest %d hours block", length)
	}

	block, err := w.CheapestBlock(length, crossMidnight)
	if err != nil {
		return unavailable(s)
	}

	s.Value = block.Contains(now)
	s.Available = true

	if !now.Before(block.End) {
		s.Attrs = map[string]any{
			"Start": nil, "Start hour": nil,
			"End": nil, "End hour": nil,
			"Min": nil, "Max": nil, "Mean": nil,
		}
		return s
	}

	startLocal := block.Start.In(hours.DisplayLocation())
	endLocal := block.End.In(hours.DisplayLocation())
	s.Attrs = map[string]any{
		"Start":      startLocal.Format(time.RFC3339),
		"Start hour": startLocal.Hour(),
		"End":        endLocal.Format(time.RFC3339),
		"End hour":   endLocal.Hour(),
		"Min":        convert.ThreeDecimals(block.Min),
		"Max":        convert.ThreeDecimals(block.Max),
		"Mean":       convert.ThreeDecimals(block.Mean),
	}
	return s
}
