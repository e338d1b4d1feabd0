// Package engine is the recommendation core: it turns a farmer query
// plus fetched weather, price, and reference data into a ranked,
// explainable list of crop recommendations with advisories and an
// optional narrative.
package engine

import (
	"errors"
	"fmt"
	"time"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/narrative"
)

// ErrDataUnavailable is the only error Recommend propagates: a
// collaborator returned nothing usable for weather or reference data.
// Every other condition resolves to a complete, well-formed Result.
var ErrDataUnavailable = errors.New("required input data unavailable")

// RiskTolerance is the farmer's stated appetite for risk.
type RiskTolerance string

const (
	ToleranceLow    RiskTolerance = "Low"
	ToleranceMedium RiskTolerance = "Medium"
	ToleranceHigh   RiskTolerance = "High"
)

// RiskLevel is the aggregate risk grading of one crop.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var riskTiers = map[string]int{"Low": 0, "Medium": 1, "High": 2}

func (r RiskLevel) tier() int      { return riskTiers[string(r)] }
func (t RiskTolerance) tier() int  { return riskTiers[string(t)] }
func (t RiskTolerance) valid() bool {
	_, ok := riskTiers[string(t)]
	return ok
}

// Location identifies where the farm is.
type Location struct {
	State     string        `json:"state"`
	District  string        `json:"district"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Soil      agri.SoilType `json:"soil_type"`
}

// FarmerQuery is one recommendation request. It is never mutated.
type FarmerQuery struct {
	Location       Location      `json:"location"`
	Budget         float64       `json:"budget"`    // rupees
	LandSize       float64       `json:"land_size"` // hectares
	RiskTolerance  RiskTolerance `json:"risk_tolerance"`
	PreferredCrops []string      `json:"preferred_crops,omitempty"`
	// Verbose retains every scored candidate, including excluded ones,
	// in Result.Candidates for diagnostics.
	Verbose bool `json:"verbose,omitempty"`
}

// Validate rejects queries the engine cannot score meaningfully.
func (q FarmerQuery) Validate() error {
	if !agri.KnownState(q.Location.State) {
		return fmt.Errorf("unknown state %q", q.Location.State)
	}
	if q.Location.Soil == "" {
		return errors.New("soil type is required")
	}
	if q.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	if q.LandSize <= 0 {
		return errors.New("land size must be positive")
	}
	if !q.RiskTolerance.valid() {
		return fmt.Errorf("invalid risk tolerance %q", q.RiskTolerance)
	}
	return nil
}

// Prefers reports whether the crop is on the farmer's preferred list.
func (q FarmerQuery) Prefers(crop string) bool {
	for _, c := range q.PreferredCrops {
		if c == crop {
			return true
		}
	}
	return false
}

// RiskBreakdown holds the four independent risk sub-scores, each in
// [0,1], higher meaning riskier.
type RiskBreakdown struct {
	Weather   float64 `json:"weather"`
	Market    float64 `json:"market"`
	Pest      float64 `json:"pest"`
	Financial float64 `json:"financial"`
}

// Max returns the worst sub-score. The aggregate level derives from the
// maximum so one severe dimension is never diluted by three mild ones.
func (r RiskBreakdown) Max() float64 {
	m := r.Weather
	for _, v := range []float64{r.Market, r.Pest, r.Financial} {
		if v > m {
			m = v
		}
	}
	return m
}

// CropScore is the fully scored record for one candidate crop.
type CropScore struct {
	Crop                  string        `json:"crop_name"`
	Suitability           float64       `json:"suitability_score"`
	MarketScore           float64       `json:"market_score"`
	Risk                  RiskBreakdown `json:"risk_scores"`
	RiskLevel             RiskLevel     `json:"risk_level"`
	ExpectedYield         float64       `json:"expected_yield"`   // quintals for the whole plot
	ExpectedProfit        float64       `json:"estimated_profit"` // rupees
	InputCost             float64       `json:"input_cost"`       // rupees
	MarketPrice           float64       `json:"market_price"`     // per quintal
	Confidence            float64       `json:"confidence_score"`
	PlantingSeason        agri.Season   `json:"planting_season"`
	PlantingTime          string        `json:"planting_time"`
	HarvestingTime        string        `json:"harvesting_time"`
	WaterRequirement      agri.Level    `json:"water_requirement"`
	FertilizerRequirement agri.Level    `json:"fertilizer_requirement"`
	PestRisk              agri.Level    `json:"pest_risk"`
	MarketDemand          agri.Level    `json:"market_demand"`
	Reasons               []string      `json:"reasons"`
	Excluded              bool          `json:"excluded,omitempty"`
	ExclusionReason       string        `json:"exclusion_reason,omitempty"`
}

// AdvisoryType classifies an advisory item.
type AdvisoryType string

const (
	AdvisoryIrrigation    AdvisoryType = "Irrigation"
	AdvisoryFertilization AdvisoryType = "Fertilization"
	AdvisoryTiming        AdvisoryType = "Timing"
	AdvisoryPest          AdvisoryType = "Pest"
	AdvisoryMarket        AdvisoryType = "Market"
)

// Urgency grades how soon an advisory should be acted on.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// AdvisoryItem is one actionable piece of advice.
type AdvisoryItem struct {
	Type               AdvisoryType `json:"advice_type"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Confidence         float64      `json:"confidence_score"`
	Urgency            Urgency      `json:"urgency"`
	ImplementationTime string       `json:"implementation_time"`
	CostEstimate       float64      `json:"cost_estimate"`
}

// LocationSummary is the state-level reference context echoed in the
// result.
type LocationSummary struct {
	State              string        `json:"state"`
	District           string        `json:"district"`
	SoilType           agri.SoilType `json:"soil_type"`
	Climate            string        `json:"climate"`
	IrrigationCoverage int           `json:"irrigation_coverage"`
	AverageRainfall    float64       `json:"average_rainfall"`
	MajorCrops         []string      `json:"major_crops"`
}

// Result is the engine's sole output. It is constructed fresh per query
// and owned exclusively by the caller.
type Result struct {
	Recommendations []CropScore      `json:"recommendations"`
	Advisories      []AdvisoryItem   `json:"advice"`
	MarketAnalysis  market.Analysis  `json:"market_analysis"`
	Narrative       string           `json:"narrative"`
	NarrativeSource narrative.Source `json:"narrative_source"`
	LocationSummary LocationSummary  `json:"location_summary"`
	Season          agri.Season      `json:"season"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Notes           []string         `json:"notes,omitempty"`
	// Candidates holds every scored crop, including excluded and
	// below-cutoff ones. Populated only for verbose queries.
	Candidates []CropScore `json:"candidates,omitempty"`
}
