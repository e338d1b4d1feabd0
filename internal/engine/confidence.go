package engine

import "fmt"

// confidence blends the three top-level signals. Risk enters through
// its normalized aggregate level, not the raw sub-scores, so confidence
// moves only when the grading actually changes tier.
func (p Policy) confidence(suit, marketScore float64, level RiskLevel, preferred, soilMatch bool) (float64, []string) {
	var reasons []string

	c := p.SuitabilityWeight*suit +
		p.MarketWeight*marketScore +
		p.RiskWeight*(1-p.RiskNorm[level])

	if preferred {
		c += p.PreferredBonus
		reasons = append(reasons, "matches your preferred crops")
	}
	if !soilMatch {
		c -= p.SoilPenalty
	}

	c = clamp01(c)
	reasons = append(reasons, fmt.Sprintf("overall confidence %.0f%% (%s risk)", c*100, level))
	return round4(c), reasons
}
