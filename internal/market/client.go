package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches commodity quotes from a rates API. Crops without a
// symbol mapping or without a quote are simply absent from the returned
// map; the scoring layer handles that as degraded data.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client against the default rates endpoint.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    "https://api.apifreaks.com/v1.0/commodity/rates/latest",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// symbols maps crop names to exchange symbols. Only a subset of crops
// trades on the rates API; the rest resolve to no live price.
var symbols = map[string]string{
	"Rice":      "RICE",
	"Wheat":     "WHEAT",
	"Maize":     "CORN",
	"Cotton":    "COTTON",
	"Soybean":   "SOYBEAN",
	"Sugarcane": "SUGAR",
}

// stateMarkets maps a state to its reference mandi.
var stateMarkets = map[string]string{
	"Delhi":          "Delhi",
	"Haryana":        "Delhi",
	"Punjab":         "Ludhiana",
	"Uttar Pradesh":  "Kanpur",
	"Maharashtra":    "Mumbai",
	"Gujarat":        "Rajkot",
	"Karnataka":      "Bengaluru",
	"Tamil Nadu":     "Chennai",
	"West Bengal":    "Kolkata",
	"Bihar":          "Patna",
	"Rajasthan":      "Jaipur",
	"Madhya Pradesh": "Indore",
	"Andhra Pradesh": "Vijayawada",
}

type ratesResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
	Trends    map[string]string  `json:"trends"`
}

// Fetch returns the latest prices for the named crops in the state's
// reference market. Crops with no symbol or no quote are omitted.
func (c *Client) Fetch(ctx context.Context, state string, crops []string) (PriceMap, error) {
	var wanted []string
	bySymbol := make(map[string]string)
	for _, crop := range crops {
		if sym, ok := symbols[crop]; ok {
			wanted = append(wanted, sym)
			bySymbol[sym] = crop
		}
	}
	if len(wanted) == 0 {
		return PriceMap{}, nil
	}

	q := url.Values{}
	q.Set("apikey", c.APIKey)
	q.Set("updates", "1m")
	q.Set("symbols", strings.Join(wanted, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commodity rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commodity rates: unexpected status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("commodity rates: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("commodity rates: provider reported failure")
	}

	mandi, ok := stateMarkets[state]
	if !ok {
		mandi = "Mumbai"
	}
	at := time.Unix(body.Timestamp, 0)

	prices := make(PriceMap, len(body.Rates))
	for sym, rate := range body.Rates {
		crop, ok := bySymbol[sym]
		if !ok || rate <= 0 {
			continue
		}
		trend := TrendStable
		switch Trend(body.Trends[sym]) {
		case TrendIncreasing, TrendDecreasing:
			trend = Trend(body.Trends[sym])
		}
		prices[crop] = Price{
			Commodity: crop,
			Current:   rate,
			Trend:     trend,
			Market:    mandi,
			Time:      at,
		}
	}
	return prices, nil
}
