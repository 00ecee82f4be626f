// Package sensor turns a price snapshot into the flat list of entity
// states that gets published over MQTT and the web API. The computation
// is pure, every call derives all states from the snapshot it is given.
package sensor

import (
	"fmt"
	"time"

	"github.com/rnovacek/czspot-go/spot"
)

// Trade names the price flow a sensor belongs to.
type Trade string

const (
	TradeSpot Trade = "spot"
	TradeBuy  Trade = "buy"
	TradeSell Trade = "sell"
)

// State is one computed entity value. Value is nil and Available false
// when the underlying data is missing, which keeps the entity defined
// but marked unavailable downstream.
type State struct {
	EntityID  string
	Name      string
	Icon      string
	Unit      string
	Binary    bool
	Value     any
	Attrs     map[string]any
	Available bool
}

// Options selects which sensors get computed beyond the defaults.
type Options struct {
	BlockLengths  []int
	CrossMidnight bool
	GasEnabled    bool
}

// Compute derives every entity state from the snapshot. Buy and sell
// flows only appear when the snapshot was built with their adjusters.
func Compute(snap *spot.Snapshot, now time.Time, opts Options) []State {
	if snap == nil {
		return nil
	}

	priceUnit := fmt.Sprintf("%s/%s", snap.Currency, snap.Unit)

	var states []State
	states = append(states, electricityStates(snap.Electricity.Spot, TradeSpot, now, priceUnit, opts)...)
	if snap.Electricity.Buy != nil {
		states = append(states, electricityStates(*snap.Electricity.Buy, TradeBuy, now, priceUnit, opts)...)
	}
	if snap.Electricity.Sell != nil {
		states = append(states, electricityStates(*snap.Electricity.Sell, TradeSell, now, priceUnit, opts)...)
	}

	if opts.GasEnabled {
		states = append(states, gasStates(snap.Gas.Spot, TradeSpot, priceUnit)...)
		if snap.Gas.Buy != nil {
			states = append(states, gasStates(*snap.Gas.Buy, TradeBuy, priceUnit)...)
		}
	}

	return states
}

func tradeIcon(trade Trade) string {
	switch trade {
	case TradeBuy:
		return "mdi:cash-minus"
	case TradeSell:
		return "mdi:cash-plus"
	default:
		return "mdi:cash"
	}
}

func unavailable(s State) State {
	s.Value = nil
	s.Attrs = map[string]any{}
	s.Available = false
	return s
}
