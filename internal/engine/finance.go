package engine

import (
	"math"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
)

// financials estimates the plot-level economics of one crop. The live
// quote prices the harvest when available, else the profile baseline.
func financials(crop agri.CropProfile, landSize, suitability float64, prices market.PriceMap) (cost, yield, price, profit float64) {
	cost = crop.InputCostPerHectare * landSize

	// Suitability discounts the reference yield: poorly matched
	// conditions cannot deliver the book figure.
	yield = crop.YieldPerHectare * landSize * suitability

	price = crop.BaselinePrice
	if q, ok := prices[crop.Name]; ok {
		price = q.Current
	}

	profit = yield*price - cost
	return math.Round(cost*100) / 100,
		math.Round(yield*100) / 100,
		price,
		math.Round(profit*100) / 100
}
