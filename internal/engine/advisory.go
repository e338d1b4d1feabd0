package engine

import (
	"fmt"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/weather"
)

// advisories derives actionable advice from the same inputs the scoring
// saw. Rules fire independently; order within the slice is the fixed
// rule order, so identical inputs give identical output.
func (p Policy) advisories(sum weather.Summary, analysis market.Analysis, prices market.PriceMap, recommended []CropScore) []AdvisoryItem {
	var out []AdvisoryItem

	if sum.Rating == weather.RatingPoor {
		out = append(out, AdvisoryItem{
			Type:               AdvisoryTiming,
			Title:              "Unfavourable Weather Window",
			Description:        "Current conditions rate poorly for field work. Delay sowing until the outlook improves and protect any standing nursery stock.",
			Confidence:         0.8,
			Urgency:            UrgencyHigh,
			ImplementationTime: "Immediate",
		})
	}

	if !isNaN(sum.TotalRainfall) && sum.TotalRainfall < p.RainfallFloor {
		deficit := (p.RainfallFloor - sum.TotalRainfall) / p.RainfallFloor
		urgency := UrgencyMedium
		if deficit > p.SevereDeficit {
			urgency = UrgencyHigh
		}
		out = append(out, AdvisoryItem{
			Type:  AdvisoryIrrigation,
			Title: "Irrigation Required",
			Description: fmt.Sprintf(
				"Only %.0fmm of rain is expected over the next 7 days. Plan supplemental irrigation; drip or sprinkler systems conserve water best.",
				sum.TotalRainfall),
			Confidence:         0.85,
			Urgency:            urgency,
			ImplementationTime: "Within 3 days",
			CostEstimate:       5000,
		})
	}

	for _, c := range recommended {
		if c.PestRisk == agri.LevelHigh {
			out = append(out, AdvisoryItem{
				Type:  AdvisoryPest,
				Title: "Pest Monitoring",
				Description: fmt.Sprintf(
					"%s carries high pest risk. Scout fields twice a week and keep integrated pest management inputs ready.", c.Crop),
				Confidence:         0.75,
				Urgency:            UrgencyMedium,
				ImplementationTime: "Throughout the season",
				CostEstimate:       2000,
			})
			break
		}
	}

	if market.TrendSignal(prices) < p.BearishSignal {
		out = append(out, AdvisoryItem{
			Type:               AdvisoryMarket,
			Title:              "Falling Market Prices",
			Description:        "Most tracked commodities are trending down. Consider staggered selling, storage, or forward contracts instead of selling at harvest.",
			Confidence:         0.7,
			Urgency:            UrgencyMedium,
			ImplementationTime: "Before harvest",
		})
	}

	if len(recommended) > 0 {
		top := recommended[0]
		if top.FertilizerRequirement == agri.LevelHigh {
			out = append(out, AdvisoryItem{
				Type:  AdvisoryFertilization,
				Title: "Soil Test Before Fertilizing",
				Description: fmt.Sprintf(
					"%s is fertilizer-intensive. Get a soil test first and split nitrogen applications to avoid waste.", top.Crop),
				Confidence:         0.7,
				Urgency:            UrgencyLow,
				ImplementationTime: "Before sowing",
				CostEstimate:       500,
			})
		}
		if analysis.Best != nil && analysis.Best.Commodity == top.Crop {
			out = append(out, AdvisoryItem{
				Type:  AdvisoryMarket,
				Title: "Strong Market Position",
				Description: fmt.Sprintf(
					"%s is currently the best performing commodity at ₹%.0f/quintal. Lock in buyers early to capture the price.",
					top.Crop, analysis.Best.Price),
				Confidence:         0.65,
				Urgency:            UrgencyLow,
				ImplementationTime: "At planting",
			})
		}
	} else {
		out = append(out, AdvisoryItem{
			Type:               AdvisoryTiming,
			Title:              "No Suitable Crop Found",
			Description:        "No crop cleared the soil and risk gates for this query. Consider soil amendment, a different season, or a higher risk tolerance.",
			Confidence:         0.9,
			Urgency:            UrgencyMedium,
			ImplementationTime: "Before next season",
		})
	}

	return out
}

func isNaN(v float64) bool { return v != v }
