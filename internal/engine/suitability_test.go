package engine

import (
	"math"
	"testing"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/weather"
)

func TestAttributeCredit(t *testing.T) {
	p := Default()
	band := agri.Range{Min: 20, Max: 30}

	cases := []struct {
		name  string
		v     float64
		want  float64
		known bool
	}{
		{"inside band", 25, 1, true},
		{"at lower edge", 20, 1, true},
		{"at upper edge", 30, 1, true},
		{"half margin below", 15, 0.5, true},
		{"at margin", 10, 0, true},
		{"beyond margin clamps", 5, 0, true},
		{"missing reading", math.NaN(), 0.5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, known := p.attributeCredit(tc.v, band, p.TempMargin)
			if !almost(got, tc.want, 1e-9) {
				t.Errorf("credit = %.4f, want %.4f", got, tc.want)
			}
			if known != tc.known {
				t.Errorf("known = %v, want %v", known, tc.known)
			}
		})
	}
}

func TestSuitabilityWeightsByWaterClass(t *testing.T) {
	p := Default()
	// Perfect temperature and humidity, zero rainfall credit: the score
	// is exactly the non-rainfall weight mass of the water class.
	sum := weather.Summary{AvgTemp: 25, TotalRainfall: 0, AvgHumidity: 70}
	crop := agri.CropProfile{
		Name:        "Test",
		Temperature: agri.Range{Min: 20, Max: 30},
		Rainfall:    agri.Range{Min: 1000, Max: 2000},
		Humidity:    agri.Range{Min: 60, Max: 80},
	}

	cases := []struct {
		water agri.Level
		want  float64
	}{
		{agri.LevelHigh, 0.55},   // .30 + .25
		{agri.LevelMedium, 0.65}, // .35 + .30
		{agri.LevelLow, 0.75},    // .40 + .35
	}
	for _, tc := range cases {
		crop.WaterRequirement = tc.water
		got, _ := p.suitability(crop, sum)
		if !almost(got, tc.want, 1e-9) {
			t.Errorf("water=%s: suitability = %.4f, want %.4f", tc.water, got, tc.want)
		}
	}
}

func TestSuitabilityMissingDataReasons(t *testing.T) {
	p := Default()
	sum := weather.Summary{
		AvgTemp:       math.NaN(),
		TotalRainfall: math.NaN(),
		AvgHumidity:   math.NaN(),
	}
	crop := agri.CropProfile{
		Name:             "Test",
		Temperature:      agri.Range{Min: 20, Max: 30},
		Rainfall:         agri.Range{Min: 500, Max: 1000},
		Humidity:         agri.Range{Min: 60, Max: 80},
		WaterRequirement: agri.LevelMedium,
	}

	got, reasons := p.suitability(crop, sum)
	if !almost(got, 0.5, 1e-9) {
		t.Errorf("all-missing suitability = %.4f, want 0.5", got)
	}
	if len(reasons) != 3 {
		t.Errorf("got %d degraded reasons, want 3: %v", len(reasons), reasons)
	}
}
