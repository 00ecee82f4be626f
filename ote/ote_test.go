package ote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rnovacek/czspot-go/hours"
)

const chartFixture = `{
	"axis": {"x": {"decimals": 0, "legend": "Hour", "step": 1}, "y": {"decimals": 2, "legend": "Price (EUR/MWh)", "step": 1}},
	"data": {"dataLine": [
		{"title": "Volume", "tooltip": "Volume", "type": "bar", "point": [{"x": "1", "y": 5000}]},
		{"title": "Price", "tooltip": "Price", "type": "line", "point": [
			{"x": "1", "y": 95.5},
			{"x": "2", "y": 88.2},
			{"x": "3", "y": 79.0}
		]}
	]},
	"graph": {"title": "Day-ahead market"}
}`

func testClient(serverURL string) *Client {
	c := New()
	c.electricityURL = serverURL
	c.gasURL = serverURL
	return c
}

func TestDayAheadPrices(t *testing.T) {
	var gotReportDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReportDate = r.URL.Query().Get("report_date")
		w.Write([]byte(chartFixture))
	}))
	defer server.Close()

	day := time.Date(2025, time.February, 3, 0, 0, 0, 0, hours.Prague())
	prices, err := testClient(server.URL).DayAheadPrices(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReportDate != "2025-02-03" {
		t.Errorf("report_date expected 2025-02-03, got %q", gotReportDate)
	}
	if len(prices) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(prices))
	}
	if prices[0].Hour != 1 || prices[0].Price != 95.5 {
		t.Errorf("first price expected hour 1 at 95.5, got %+v", prices[0])
	}
	if prices[2].Hour != 3 || prices[2].Price != 79.0 {
		t.Errorf("third price expected hour 3 at 79.0, got %+v", prices[2])
	}
}

func TestDayAheadPricesUnpublishedDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chart endpoint answers with no data line for future days.
		w.Write([]byte(`{"data": {"dataLine": []}}`))
	}))
	defer server.Close()

	prices, err := testClient(server.URL).DayAheadPrices(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected no prices for an unpublished day, got %d", len(prices))
	}
}

func TestDayAheadPricesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).DayAheadPrices(context.Background(), time.Now())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestDayAheadPricesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := testClient(server.URL).DayAheadPrices(context.Background(), time.Now())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestGasIndexPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"dataLine": [
			{"title": "Price", "tooltip": "Price", "type": "line", "point": [{"x": "1", "y": 33.4}]}
		]}}`))
	}))
	defer server.Close()

	day := time.Date(2025, time.February, 3, 15, 0, 0, 0, hours.Prague())
	prices, err := testClient(server.URL).GasIndexPrices(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 price, got %d", len(prices))
	}
	if prices[0].Price != 33.4 {
		t.Errorf("price expected 33.4, got %v", prices[0].Price)
	}
	if !prices[0].Day.Equal(hours.Midnight(day)) {
		t.Errorf("day expected Prague midnight, got %v", prices[0].Day)
	}
}
