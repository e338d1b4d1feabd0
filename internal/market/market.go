// Package market defines the commodity-price collaborator: price types,
// an HTTP rates client, and market analysis derived from price trends.
package market

import "time"

// Trend is the direction a commodity price is moving.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Price is the latest quote for one commodity. Current is in rupees per
// quintal.
type Price struct {
	Commodity string    `json:"commodity_name"`
	Current   float64   `json:"current_price"`
	Trend     Trend     `json:"price_trend"`
	Market    string    `json:"market_location"`
	Time      time.Time `json:"date"`
}

// PriceMap maps crop name to its latest price. Absent entries mean no
// price data was available for that crop; that is a valid state.
type PriceMap map[string]Price
