package market

import "math"

// Sentiment is the broad market direction across all quoted commodities.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// TrendCounts tallies commodities per price trend.
type TrendCounts struct {
	Increasing int `json:"increasing"`
	Decreasing int `json:"decreasing"`
	Stable     int `json:"stable"`
}

// Performer identifies one commodity and its quote.
type Performer struct {
	Commodity string  `json:"commodity"`
	Price     float64 `json:"price"`
	Trend     Trend   `json:"trend"`
}

// Analysis is the market summary attached to every recommendation
// result.
type Analysis struct {
	Sentiment      Sentiment   `json:"market_sentiment"`
	AveragePrice   float64     `json:"average_price"`
	TrendCounts    TrendCounts `json:"trend_distribution"`
	Best           *Performer  `json:"best_performing,omitempty"`
	Worst          *Performer  `json:"worst_performing,omitempty"`
	Recommendation string      `json:"market_recommendation"`
}

// Analyze summarizes the supplied prices. An empty map produces a
// neutral analysis, not an error.
func Analyze(prices PriceMap) Analysis {
	if len(prices) == 0 {
		return Analysis{
			Sentiment:      SentimentNeutral,
			Recommendation: "No live price data available - rely on local mandi rates before selling",
		}
	}

	a := Analysis{}
	var sum float64
	var best, worst Price
	first := true
	for _, p := range prices {
		sum += p.Current
		switch p.Trend {
		case TrendIncreasing:
			a.TrendCounts.Increasing++
		case TrendDecreasing:
			a.TrendCounts.Decreasing++
		default:
			a.TrendCounts.Stable++
		}
		// Name breaks price ties so the result is deterministic
		// regardless of map iteration order.
		if first || p.Current > best.Current || (p.Current == best.Current && p.Commodity < best.Commodity) {
			best = p
		}
		if first || p.Current < worst.Current || (p.Current == worst.Current && p.Commodity < worst.Commodity) {
			worst = p
		}
		first = false
	}

	a.AveragePrice = math.Round(sum/float64(len(prices))*100) / 100
	a.Best = &Performer{Commodity: best.Commodity, Price: best.Current, Trend: best.Trend}
	a.Worst = &Performer{Commodity: worst.Commodity, Price: worst.Current, Trend: worst.Trend}
	a.Sentiment = sentiment(a.TrendCounts)
	a.Recommendation = recommendation(a.TrendCounts, len(prices))
	return a
}

func sentiment(tc TrendCounts) Sentiment {
	total := tc.Increasing + tc.Decreasing + tc.Stable
	if total == 0 {
		return SentimentNeutral
	}
	switch {
	case float64(tc.Increasing)/float64(total) > 0.6:
		return SentimentBullish
	case float64(tc.Decreasing)/float64(total) > 0.6:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

func recommendation(tc TrendCounts, total int) string {
	switch {
	case float64(tc.Increasing) > float64(total)*0.6:
		return "Market is showing strong upward trends - good time for planting high-value crops"
	case float64(tc.Decreasing) > float64(total)*0.6:
		return "Market is declining - consider diversifying or focusing on staple crops"
	default:
		return "Market is stable - focus on crops with consistent demand"
	}
}

// TrendSignal averages the trend direction across all prices:
// +1 per increasing, -1 per decreasing, 0 per stable. Returns 0 for an
// empty map.
func TrendSignal(prices PriceMap) float64 {
	if len(prices) == 0 {
		return 0
	}
	var sum float64
	for _, p := range prices {
		switch p.Trend {
		case TrendIncreasing:
			sum++
		case TrendDecreasing:
			sum--
		}
	}
	return sum / float64(len(prices))
}
