package engine

import "sort"

// rank orders candidates by confidence, then expected profit, then name,
// and splits them into the recommended head and the remainder. The
// minimum-confidence floor is soft: it only applies when at least one
// candidate clears it, so a weak field still yields recommendations.
func (p Policy) rank(scored []CropScore) (recommended, rest []CropScore) {
	eligible := make([]CropScore, 0, len(scored))
	rest = make([]CropScore, 0)
	for _, c := range scored {
		if c.Excluded {
			rest = append(rest, c)
			continue
		}
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.ExpectedProfit != b.ExpectedProfit {
			return a.ExpectedProfit > b.ExpectedProfit
		}
		return a.Crop < b.Crop
	})

	anyAbove := false
	for _, c := range eligible {
		if c.Confidence >= p.MinConfidence {
			anyAbove = true
			break
		}
	}
	if anyAbove {
		kept := eligible[:0:0]
		for _, c := range eligible {
			if c.Confidence >= p.MinConfidence {
				kept = append(kept, c)
			} else {
				c.ExclusionReason = "below minimum confidence"
				rest = append(rest, c)
			}
		}
		eligible = kept
	}

	if len(eligible) > p.TopN {
		rest = append(rest, eligible[p.TopN:]...)
		eligible = eligible[:p.TopN]
	}
	return eligible, rest
}
