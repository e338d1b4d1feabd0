package engine

import (
	"fmt"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
)

// marketScore grades the crop's current market position. Without a live
// quote the score is exactly neutral and the degradation is reported as
// a reason.
func (p Policy) marketScore(crop agri.CropProfile, prices market.PriceMap) (float64, []string) {
	q, ok := prices[crop.Name]
	if !ok {
		return p.NeutralMarket, []string{
			fmt.Sprintf("no live price data for %s, market scored neutrally", crop.Name),
		}
	}

	level := clamp01(q.Current / (p.PriceRatioCap * crop.BaselinePrice))

	var reasons []string
	switch q.Trend {
	case market.TrendIncreasing:
		level += p.TrendBonus
		reasons = append(reasons, fmt.Sprintf("%s prices are rising (₹%.0f/quintal)", crop.Name, q.Current))
	case market.TrendDecreasing:
		level -= p.TrendBonus
		reasons = append(reasons, fmt.Sprintf("%s prices are falling (₹%.0f/quintal)", crop.Name, q.Current))
	default:
		reasons = append(reasons, fmt.Sprintf("%s prices are stable (₹%.0f/quintal)", crop.Name, q.Current))
	}

	return clamp01(level), reasons
}
