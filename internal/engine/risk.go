package engine

import (
	"fmt"
	"math"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/weather"
)

// weatherRisk is the complement of the mean attribute credit: the worse
// conditions match the crop's tolerated ranges, the riskier planting is.
func (p Policy) weatherRisk(crop agri.CropProfile, sum weather.Summary) float64 {
	tc, _ := p.attributeCredit(sum.AvgTemp, crop.Temperature, p.TempMargin)
	rc, _ := p.attributeCredit(sum.TotalRainfall, crop.Rainfall, p.RainfallMargin)
	hc, _ := p.attributeCredit(sum.AvgHumidity, crop.Humidity, p.HumidityMargin)
	return clamp01(1 - (tc+rc+hc)/3)
}

// marketRisk grows as the market score shrinks, plus a volatility term
// keyed on the trend. A missing quote carries its own volatility.
func (p Policy) marketRisk(marketScore float64, crop agri.CropProfile, prices market.PriceMap) float64 {
	trend := ""
	if q, ok := prices[crop.Name]; ok {
		trend = string(q.Trend)
	}
	return clamp01((1-marketScore)*p.MarketRiskWeight + p.Volatility[trend])
}

// pestRisk starts at the crop's baseline and worsens under humid or
// overheated conditions, which favour pest pressure.
func (p Policy) pestRisk(crop agri.CropProfile, sum weather.Summary) float64 {
	r := p.PestBaseline[crop.PestRisk]
	if !math.IsNaN(sum.AvgHumidity) && sum.AvgHumidity > p.PestHumidityAt {
		r += p.PestHumidityBump
	}
	if !math.IsNaN(sum.AvgTemp) && sum.AvgTemp > crop.Temperature.Max {
		r += p.PestHeatBump
	}
	return clamp01(r)
}

// financialRisk grows quadratically with the share of the budget the
// crop's input cost consumes, so an over-budget crop saturates fast.
func (p Policy) financialRisk(cost, budget float64) float64 {
	if budget <= 0 {
		return 1
	}
	ratio := cost / budget
	return clamp01(ratio * ratio)
}

// riskLevel tiers the aggregate (maximum) sub-score.
func (p Policy) riskLevel(r RiskBreakdown) RiskLevel {
	m := r.Max()
	switch {
	case m < p.RiskLowBelow:
		return RiskLow
	case m < p.RiskMediumBelow:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// exceedsTolerance reports whether the crop's aggregate risk sits more
// than one tier above what the farmer will accept.
func exceedsTolerance(level RiskLevel, tol RiskTolerance) bool {
	return level.tier()-tol.tier() > 1
}

// assessRisk computes the full breakdown and aggregate level for one
// scored candidate.
func (p Policy) assessRisk(crop agri.CropProfile, sum weather.Summary, marketScore, cost, budget float64, prices market.PriceMap) (RiskBreakdown, RiskLevel, []string) {
	br := RiskBreakdown{
		Weather:   round4(p.weatherRisk(crop, sum)),
		Market:    round4(p.marketRisk(marketScore, crop, prices)),
		Pest:      round4(p.pestRisk(crop, sum)),
		Financial: round4(p.financialRisk(cost, budget)),
	}
	level := p.riskLevel(br)

	var reasons []string
	if br.Financial > p.RiskMediumBelow {
		reasons = append(reasons, fmt.Sprintf("input cost ₹%.0f consumes most of the budget", cost))
	}
	if br.Pest >= p.PestBaseline[agri.LevelHigh] {
		reasons = append(reasons, fmt.Sprintf("%s carries high pest pressure under current conditions", crop.Name))
	}
	return br, level, reasons
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
