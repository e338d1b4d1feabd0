package engine

import (
	"testing"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/weather"
)

func TestFinancialRiskQuadratic(t *testing.T) {
	p := Default()
	cases := []struct {
		cost, budget, want float64
	}{
		{0, 50000, 0},
		{25000, 50000, 0.25},
		{37500, 50000, 0.5625},
		{50000, 50000, 1},
		{60000, 50000, 1}, // over budget clamps
		{10000, 0, 1},     // guarded
	}
	for _, tc := range cases {
		if got := p.financialRisk(tc.cost, tc.budget); !almost(got, tc.want, 1e-9) {
			t.Errorf("financialRisk(%.0f, %.0f) = %.4f, want %.4f", tc.cost, tc.budget, got, tc.want)
		}
	}
}

func TestPestRiskAdjustments(t *testing.T) {
	p := Default()
	crop := agri.CropProfile{
		Name:        "Test",
		Temperature: agri.Range{Min: 20, Max: 30},
		PestRisk:    agri.LevelMedium,
	}

	cases := []struct {
		name string
		sum  weather.Summary
		want float64
	}{
		{"baseline", weather.Summary{AvgTemp: 25, AvgHumidity: 60}, 0.5},
		{"humid", weather.Summary{AvgTemp: 25, AvgHumidity: 90}, 0.65},
		{"hot", weather.Summary{AvgTemp: 32, AvgHumidity: 60}, 0.6},
		{"humid and hot", weather.Summary{AvgTemp: 32, AvgHumidity: 90}, 0.75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.pestRisk(crop, tc.sum); !almost(got, tc.want, 1e-9) {
				t.Errorf("pestRisk = %.4f, want %.4f", got, tc.want)
			}
		})
	}

	crop.PestRisk = agri.LevelHigh
	hot := weather.Summary{AvgTemp: 32, AvgHumidity: 90}
	if got := p.pestRisk(crop, hot); got != 1 {
		t.Errorf("high baseline with both bumps = %.4f, want clamped 1", got)
	}
}

func TestMarketRiskVolatilityByTrend(t *testing.T) {
	p := Default()
	crop := agri.CropProfile{Name: "Wheat"}

	cases := []struct {
		name  string
		trend market.Trend
		has   bool
		want  float64
	}{
		{"increasing", market.TrendIncreasing, true, 0.5*0.8 + 0.10},
		{"stable", market.TrendStable, true, 0.5*0.8 + 0.05},
		{"decreasing", market.TrendDecreasing, true, 0.5*0.8 + 0.25},
		{"no quote", "", false, 0.5*0.8 + 0.15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prices := market.PriceMap{}
			if tc.has {
				prices["Wheat"] = market.Price{Commodity: "Wheat", Trend: tc.trend}
			}
			if got := p.marketRisk(0.5, crop, prices); !almost(got, tc.want, 1e-9) {
				t.Errorf("marketRisk = %.4f, want %.4f", got, tc.want)
			}
		})
	}
}

func TestRiskLevelTiersFromMax(t *testing.T) {
	p := Default()
	cases := []struct {
		name string
		br   RiskBreakdown
		want RiskLevel
	}{
		{"all low", RiskBreakdown{0.1, 0.2, 0.3, 0.1}, RiskLow},
		{"one medium dominates", RiskBreakdown{0.1, 0.1, 0.5, 0.1}, RiskMedium},
		{"one high dominates", RiskBreakdown{0.1, 0.1, 0.1, 0.9}, RiskHigh},
		{"boundary low", RiskBreakdown{0.3499, 0, 0, 0}, RiskLow},
		{"boundary medium", RiskBreakdown{0.35, 0, 0, 0}, RiskMedium},
		{"boundary high", RiskBreakdown{0.65, 0, 0, 0}, RiskHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.riskLevel(tc.br); got != tc.want {
				t.Errorf("riskLevel(%+v) = %s, want %s", tc.br, got, tc.want)
			}
		})
	}
}

func TestExceedsTolerance(t *testing.T) {
	cases := []struct {
		level RiskLevel
		tol   RiskTolerance
		want  bool
	}{
		{RiskHigh, ToleranceLow, true},
		{RiskHigh, ToleranceMedium, false},
		{RiskHigh, ToleranceHigh, false},
		{RiskMedium, ToleranceLow, false},
		{RiskLow, ToleranceLow, false},
	}
	for _, tc := range cases {
		if got := exceedsTolerance(tc.level, tc.tol); got != tc.want {
			t.Errorf("exceedsTolerance(%s, %s) = %v, want %v", tc.level, tc.tol, got, tc.want)
		}
	}
}
