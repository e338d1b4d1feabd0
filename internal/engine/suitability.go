package engine

import (
	"fmt"
	"math"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/weather"
)

// attributeCredit grades one weather attribute against the crop's
// tolerated band: full credit inside, linear falloff to zero at margin
// distance outside. A missing reading earns the neutral credit.
func (p Policy) attributeCredit(v float64, band agri.Range, margin float64) (float64, bool) {
	if math.IsNaN(v) {
		return p.MissingCredit, false
	}
	d := band.Distance(v)
	if d == 0 {
		return 1, true
	}
	c := 1 - d/margin
	if c < 0 {
		c = 0
	}
	return c, true
}

// suitability scores how well expected conditions match the crop's
// agronomic needs, weighted by its water-requirement class. Returned
// reasons explain both strengths and degraded inputs.
func (p Policy) suitability(crop agri.CropProfile, sum weather.Summary) (float64, []string) {
	var reasons []string

	w, ok := p.Weights[crop.WaterRequirement]
	if !ok {
		w = p.Weights[agri.LevelMedium]
	}

	tc, tKnown := p.attributeCredit(sum.AvgTemp, crop.Temperature, p.TempMargin)
	rc, rKnown := p.attributeCredit(sum.TotalRainfall, crop.Rainfall, p.RainfallMargin)
	hc, hKnown := p.attributeCredit(sum.AvgHumidity, crop.Humidity, p.HumidityMargin)

	if !tKnown {
		reasons = append(reasons, "temperature data unavailable, scored neutrally")
	} else if tc == 1 {
		reasons = append(reasons, fmt.Sprintf("temperature %.1f°C is ideal for %s", sum.AvgTemp, crop.Name))
	}
	if !rKnown {
		reasons = append(reasons, "rainfall data unavailable, scored neutrally")
	} else if rc == 1 {
		reasons = append(reasons, fmt.Sprintf("expected rainfall %.0fmm suits %s", sum.TotalRainfall, crop.Name))
	}
	if !hKnown {
		reasons = append(reasons, "humidity data unavailable, scored neutrally")
	} else if hc == 1 {
		reasons = append(reasons, fmt.Sprintf("humidity %.0f%% is within the preferred range", sum.AvgHumidity))
	}

	score := w.Temperature*tc + w.Rainfall*rc + w.Humidity*hc
	return clamp01(score), reasons
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
