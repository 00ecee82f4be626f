package cnb

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

const rateSheet = `02.01.2025 #1
země|měna|množství|kód|kurz
Austrálie|dolar|1|AUD|15,234
EMU|euro|1|EUR|25,185
Maďarsko|forint|100|HUF|6,123
USA|dolar|1|USD|24,310
`

func testClient(url string) *Client {
	c := New()
	c.url = url
	return c
}

func TestRateMultipliers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateSheet))
	}))
	defer server.Close()

	c := testClient(server.URL)

	tests := []struct {
		currency string
		expected float64
	}{
		{"CZK", 25.185},          // EUR price in CZK
		{"EUR", 1},               // no conversion
		{"USD", 25.185 / 24.310}, // EUR price in USD
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got, err := c.Rate(context.Background(), tt.currency)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("rate for %s expected %v, got %v", tt.currency, tt.expected, got)
			}
		})
	}
}

func TestRateAmountAwareParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateSheet))
	}))
	defer server.Close()

	// HUF is quoted per 100 units, the per-unit rate is 0.06123 CZK.
	got, err := testClient(server.URL).Rate(context.Background(), "HUF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 25.185 / (6.123 / 100)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("HUF multiplier expected %v, got %v", want, got)
	}
}

func TestRateUnknownCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rateSheet))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Rate(context.Background(), "XYZ")
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestRateCachesPerDay(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(rateSheet))
	}))
	defer server.Close()

	c := testClient(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.Rate(context.Background(), "CZK"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single fetch for one day, got %d", calls)
	}
}

func TestRateKeepsStaleSheetOnFailure(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(rateSheet))
	}))
	defer server.Close()

	c := testClient(server.URL)
	if _, err := c.Rate(context.Background(), "CZK"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	healthy = false
	c.fetchedDay = "" // force a refetch attempt
	got, err := c.Rate(context.Background(), "CZK")
	if err != nil {
		t.Fatalf("expected stale sheet fallback, got error: %v", err)
	}
	if got != 25.185 {
		t.Errorf("expected cached rate 25.185, got %v", got)
	}
}
