// Package ote fetches day-ahead electricity and intraday gas index
// prices from the OTE-ČR market operator chart endpoints.
package ote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rnovacek/czspot-go/hours"
	"github.com/rnovacek/czspot-go/types"
)

const (
	electricityURL = "https://www.ote-cr.cz/en/short-term-markets/electricity/day-ahead-market/@@chart-data"
	gasURL         = "https://www.ote-cr.cz/en/short-term-markets/gas/intra-day-market/@@chart-data"

	// The line holding prices in the chart payload.
	priceTooltip = "Price"
)

// ErrSourceUnavailable marks a failed request to the operator. It is
// distinct from an empty result, which just means the day has not been
// published yet.
var ErrSourceUnavailable = errors.New("ote source unavailable")

type Client struct {
	electricityURL string
	gasURL         string
	http           *http.Client
}

func New() *Client {
	return &Client{
		electricityURL: electricityURL,
		gasURL:         gasURL,
		http:           &http.Client{},
	}
}

// DayAheadPrices returns the hourly electricity quotes published for the
// given Prague calendar day. Hour indexes are operator-native, 1-based
// from midnight. An empty slice is the regular "not published yet" state.
func (c *Client) DayAheadPrices(ctx context.Context, day time.Time) ([]types.HourPrice, error) {
	chart, err := c.fetchChart(ctx, c.electricityURL, day)
	if err != nil {
		return nil, err
	}

	var prices []types.HourPrice
	for _, line := range chart.Data.DataLine {
		if line.Tooltip != priceTooltip {
			continue
		}
		for _, point := range line.Point {
			hour, err := strconv.Atoi(point.X)
			if err != nil {
				return nil, fmt.Errorf("unexpected hour index %q: %w", point.X, err)
			}
			prices = append(prices, types.HourPrice{Hour: hour, Price: point.Y})
		}
	}

	return prices, nil
}

// GasIndexPrices returns the daily gas index for the given day, a single
// price when published.
func (c *Client) GasIndexPrices(ctx context.Context, day time.Time) ([]types.DayPrice, error) {
	chart, err := c.fetchChart(ctx, c.gasURL, day)
	if err != nil {
		return nil, err
	}

	var prices []types.DayPrice
	for _, line := range chart.Data.DataLine {
		if line.Tooltip != priceTooltip {
			continue
		}
		for _, point := range line.Point {
			prices = append(prices, types.DayPrice{Day: hours.Midnight(day), Price: point.Y})
		}
	}

	return prices, nil
}

func (c *Client) fetchChart(ctx context.Context, base string, day time.Time) (*chartData, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	q := u.Query()
	q.Set("report_date", hours.DayString(day))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Not published yet.
		return &chartData{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var chart chartData
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart data: %w", err)
	}

	return &chart, nil
}
