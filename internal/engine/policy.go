package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
)

// AttributeWeights split the suitability score across temperature,
// rainfall, and humidity. They must sum to 1.
type AttributeWeights struct {
	Temperature float64 `yaml:"temperature"`
	Rainfall    float64 `yaml:"rainfall"`
	Humidity    float64 `yaml:"humidity"`
}

func (w AttributeWeights) sum() float64 {
	return w.Temperature + w.Rainfall + w.Humidity
}

// Policy is the full set of scoring constants. It is loaded once at
// startup and treated as immutable afterwards; the engine never writes
// to it.
type Policy struct {
	// Suitability margins: distance outside the tolerated band at which
	// the attribute credit reaches zero.
	TempMargin     float64 `yaml:"temp_margin"`     // °C
	RainfallMargin float64 `yaml:"rainfall_margin"` // mm
	HumidityMargin float64 `yaml:"humidity_margin"` // percent

	// Attribute weights keyed by the crop's water-requirement class.
	Weights map[agri.Level]AttributeWeights `yaml:"weights"`

	// Market scoring.
	PriceRatioCap float64 `yaml:"price_ratio_cap"` // price / (cap × baseline) saturates at 1
	TrendBonus    float64 `yaml:"trend_bonus"`     // added for increasing, subtracted for decreasing
	NeutralMarket float64 `yaml:"neutral_market"`  // score when no price is known

	// Risk scoring.
	MarketRiskWeight float64             `yaml:"market_risk_weight"`
	Volatility       map[string]float64  `yaml:"volatility"` // by trend, "" = no price
	PestBaseline     map[agri.Level]float64 `yaml:"pest_baseline"`
	PestHumidityBump float64             `yaml:"pest_humidity_bump"` // when humidity > threshold
	PestHumidityAt   float64             `yaml:"pest_humidity_at"`
	PestHeatBump     float64             `yaml:"pest_heat_bump"` // when temp above crop max

	// Aggregate risk tiering from the max sub-score.
	RiskLowBelow    float64 `yaml:"risk_low_below"`
	RiskMediumBelow float64 `yaml:"risk_medium_below"`

	// Confidence combination.
	SuitabilityWeight float64               `yaml:"suitability_weight"`
	MarketWeight      float64               `yaml:"market_weight"`
	RiskWeight        float64               `yaml:"risk_weight"`
	RiskNorm          map[RiskLevel]float64 `yaml:"risk_norm"`
	PreferredBonus    float64               `yaml:"preferred_bonus"`
	SoilPenalty       float64               `yaml:"soil_penalty"`

	// Ranking.
	TopN          int     `yaml:"top_n"`
	MinConfidence float64 `yaml:"min_confidence"` // soft floor

	// Advisory thresholds.
	RainfallFloor  float64 `yaml:"rainfall_floor"`   // mm over 7 days
	SevereDeficit  float64 `yaml:"severe_deficit"`   // fraction of floor missing
	BearishSignal  float64 `yaml:"bearish_signal"`   // trend signal below this is bearish
	MissingCredit  float64 `yaml:"missing_credit"`   // suitability credit for a missing reading
}

// Default returns the compiled-in policy. Its constants come from the
// reference scoring model and are the ones the tests pin down.
func Default() Policy {
	return Policy{
		TempMargin:     10,
		RainfallMargin: 500,
		HumidityMargin: 20,
		Weights: map[agri.Level]AttributeWeights{
			agri.LevelHigh:   {Temperature: 0.30, Rainfall: 0.45, Humidity: 0.25},
			agri.LevelMedium: {Temperature: 0.35, Rainfall: 0.35, Humidity: 0.30},
			agri.LevelLow:    {Temperature: 0.40, Rainfall: 0.25, Humidity: 0.35},
		},
		PriceRatioCap: 2,
		TrendBonus:    0.15,
		NeutralMarket: 0.5,

		MarketRiskWeight: 0.8,
		Volatility: map[string]float64{
			string(market.TrendIncreasing): 0.10,
			string(market.TrendStable):     0.05,
			string(market.TrendDecreasing): 0.25,
			"":                             0.15,
		},
		PestBaseline: map[agri.Level]float64{
			agri.LevelLow:    0.25,
			agri.LevelMedium: 0.50,
			agri.LevelHigh:   0.75,
		},
		PestHumidityBump: 0.15,
		PestHumidityAt:   85,
		PestHeatBump:     0.10,

		RiskLowBelow:    0.35,
		RiskMediumBelow: 0.65,

		SuitabilityWeight: 0.4,
		MarketWeight:      0.3,
		RiskWeight:        0.3,
		RiskNorm: map[RiskLevel]float64{
			RiskLow:    0.2,
			RiskMedium: 0.5,
			RiskHigh:   0.8,
		},
		PreferredBonus: 0.1,
		SoilPenalty:    0.1,

		TopN:          5,
		MinConfidence: 0.3,

		RainfallFloor: 50,
		SevereDeficit: 0.8,
		BearishSignal: -0.2,
		MissingCredit: 0.5,
	}
}

// Load reads a policy from a YAML file, starting from the defaults so a
// partial file only overrides what it names.
func Load(path string) (Policy, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the structural invariants a policy must satisfy.
func (p Policy) Validate() error {
	for _, lvl := range []agri.Level{agri.LevelLow, agri.LevelMedium, agri.LevelHigh} {
		w, ok := p.Weights[lvl]
		if !ok {
			return fmt.Errorf("missing attribute weights for %s water requirement", lvl)
		}
		if s := w.sum(); s < 0.999 || s > 1.001 {
			return fmt.Errorf("attribute weights for %s sum to %.3f, want 1", lvl, s)
		}
	}
	if s := p.SuitabilityWeight + p.MarketWeight + p.RiskWeight; s < 0.999 || s > 1.001 {
		return fmt.Errorf("confidence weights sum to %.3f, want 1", s)
	}
	if p.RiskLowBelow <= 0 || p.RiskMediumBelow <= p.RiskLowBelow || p.RiskMediumBelow >= 1 {
		return fmt.Errorf("risk tier cutoffs %.2f/%.2f are not ascending within (0,1)",
			p.RiskLowBelow, p.RiskMediumBelow)
	}
	if p.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", p.TopN)
	}
	return nil
}
