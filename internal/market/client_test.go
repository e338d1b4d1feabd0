package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q", got)
		}
		json.NewEncoder(w).Encode(ratesResponse{
			Success:   true,
			Timestamp: 1764000000,
			Rates:     map[string]float64{"RICE": 2500, "WHEAT": 2200, "CORN": 0},
			Trends:    map[string]string{"RICE": "increasing", "WHEAT": "stable"},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	prices, err := c.Fetch(context.Background(), "Maharashtra", []string{"Rice", "Wheat", "Maize", "Tomato"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	rice, ok := prices["Rice"]
	if !ok {
		t.Fatal("Rice missing from price map")
	}
	if rice.Current != 2500 || rice.Trend != TrendIncreasing || rice.Market != "Mumbai" {
		t.Errorf("Rice = %+v", rice)
	}
	if _, ok := prices["Maize"]; ok {
		t.Error("Maize present despite zero rate")
	}
	// Tomato has no exchange symbol: silently absent, not an error.
	if _, ok := prices["Tomato"]; ok {
		t.Error("Tomato present despite having no symbol")
	}
}

func TestClientFetchNoTradableCrops(t *testing.T) {
	c := NewClient("test-key")
	c.BaseURL = "http://127.0.0.1:1" // must not be contacted

	prices, err := c.Fetch(context.Background(), "Punjab", []string{"Tomato", "Onion"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("got %d prices, want 0", len(prices))
	}
}

func TestClientFetchProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ratesResponse{Success: false})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	if _, err := c.Fetch(context.Background(), "Punjab", []string{"Rice"}); err == nil {
		t.Fatal("expected error when provider reports failure")
	}
}

func TestClientFetchUnknownStateFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ratesResponse{
			Success: true,
			Rates:   map[string]float64{"RICE": 2400},
			Trends:  map[string]string{},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	prices, err := c.Fetch(context.Background(), "Sikkim", []string{"Rice"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if prices["Rice"].Market != "Mumbai" {
		t.Errorf("market = %q, want Mumbai fallback", prices["Rice"].Market)
	}
	if prices["Rice"].Trend != TrendStable {
		t.Errorf("trend = %q, want stable default", prices["Rice"].Trend)
	}
}
