// Package cnb fetches daily exchange rates published by the Czech
// National Bank and turns them into conversion multipliers for
// EUR-quoted market prices.
package cnb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rnovacek/czspot-go/hours"
)

const ratesURL = "https://www.cnb.cz/cs/financni-trhy/devizovy-trh/kurzy-devizoveho-trhu/kurzy-devizoveho-trhu/denni_kurz.txt"

var ErrUnknownCurrency = errors.New("currency not in CNB rate sheet")

type Client struct {
	url  string
	http *http.Client

	mu         sync.Mutex
	rates      map[string]float64 // CZK per one unit of currency
	fetchedDay string
}

func New() *Client {
	return &Client{
		url:  ratesURL,
		http: &http.Client{},
	}
}

// Rate returns the multiplier converting an EUR-quoted price into the
// given currency. EUR prices converted to CZK multiply by the EUR rate,
// EUR to EUR is 1. Rates are cached for the current Prague day, CNB
// publishes one sheet per working day.
func (c *Client) Rate(ctx context.Context, currency string) (float64, error) {
	rates, err := c.currentRates(ctx)
	if err != nil {
		return 0, err
	}

	eur, ok := rates["EUR"]
	if !ok {
		return 0, fmt.Errorf("%w: EUR", ErrUnknownCurrency)
	}
	target, ok := rates[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}

	return eur / target, nil
}

func (c *Client) currentRates(ctx context.Context) (map[string]float64, error) {
	day := hours.DayString(time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetchedDay == day && c.rates != nil {
		return c.rates, nil
	}

	rates, err := c.fetchRates(ctx)
	if err != nil {
		// Keep serving yesterday's sheet rather than failing the rebuild.
		if c.rates != nil {
			return c.rates, nil
		}
		return nil, err
	}

	c.rates = rates
	c.fetchedDay = day
	return rates, nil
}

func (c *Client) fetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CNB rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from CNB: %d", resp.StatusCode)
	}

	rates := map[string]float64{"CZK": 1}

	scanner := bufio.NewScanner(resp.Body)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		// First line is the date header, second the column names.
		if lineNo <= 2 || line == "" {
			continue
		}

		// země|měna|množství|kód|kurz
		fields := strings.Split(line, "|")
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed CNB rate line %d: %q", lineNo, line)
		}

		amount, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || amount == 0 {
			return nil, fmt.Errorf("bad amount on CNB rate line %d: %q", lineNo, line)
		}
		rate, err := strconv.ParseFloat(strings.ReplaceAll(fields[4], ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("bad rate on CNB rate line %d: %q", lineNo, line)
		}

		// Some currencies are quoted per 100 or 1000 units.
		rates[fields[3]] = rate / amount
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CNB rates: %w", err)
	}

	return rates, nil
}
