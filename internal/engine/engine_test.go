package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/narrative"
	"cropadvisor/internal/weather"
)

// november pins the engine to the Rabi season.
var november = time.Date(2025, time.November, 15, 10, 0, 0, 0, time.UTC)

func testEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	e := New(agri.NewMemory(), Default(), narrative.NewAugmenter(nil, 0))
	e.nowFn = func() time.Time { return now }
	return e
}

func maharashtraQuery() FarmerQuery {
	return FarmerQuery{
		Location: Location{
			State:    "Maharashtra",
			District: "Pune",
			Soil:     agri.SoilBlack,
		},
		Budget:        50000,
		LandSize:      2.5,
		RiskTolerance: ToleranceMedium,
	}
}

// drySnapshot is a warm, dry Rabi week: 28.5°C, 65% humidity, 15mm of
// rain across 7 days.
func drySnapshot(now time.Time) *weather.Snapshot {
	current := weather.Observation{Temperature: 28.5, Humidity: 65, Rainfall: 0, Time: now}
	s := weather.Snapshot{Current: current}
	rain := []float64{3, 2, 2, 2, 2, 2, 2}
	for i := 0; i < 7; i++ {
		s.Forecast = append(s.Forecast, weather.Observation{
			Temperature: 28.5,
			Humidity:    65,
			Rainfall:    rain[i],
			Time:        now.AddDate(0, 0, i+1),
		})
	}
	return &s
}

func rabiPrices() market.PriceMap {
	return market.PriceMap{
		"Rice":  {Commodity: "Rice", Current: 2500, Trend: market.TrendIncreasing, Market: "Mumbai"},
		"Wheat": {Commodity: "Wheat", Current: 2200, Trend: market.TrendStable, Market: "Mumbai"},
	}
}

func almost(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestRecommendRabiScenario(t *testing.T) {
	e := testEngine(t, november)
	res, err := e.Recommend(context.Background(), maharashtraQuery(), drySnapshot(november), rabiPrices())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Season != agri.SeasonRabi {
		t.Fatalf("season = %s, want Rabi", res.Season)
	}
	if len(res.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3 (Rice, Maize, Wheat)", len(res.Recommendations))
	}

	got := []string{res.Recommendations[0].Crop, res.Recommendations[1].Crop, res.Recommendations[2].Crop}
	want := []string{"Rice", "Maize", "Wheat"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i+1, got[i], want[i])
		}
	}

	rice := res.Recommendations[0]
	if !almost(rice.Suitability, 0.4875, 0.0005) {
		t.Errorf("Rice suitability = %.4f, want 0.4875", rice.Suitability)
	}
	if !almost(rice.MarketScore, 0.7182, 0.001) {
		t.Errorf("Rice market score = %.4f, want ~0.7182", rice.MarketScore)
	}
	if !almost(rice.Risk.Financial, 0.5625, 0.0005) {
		t.Errorf("Rice financial risk = %.4f, want 0.5625", rice.Risk.Financial)
	}
	if rice.RiskLevel != RiskMedium {
		t.Errorf("Rice risk level = %s, want Medium", rice.RiskLevel)
	}
	if !almost(rice.Confidence, 0.5605, 0.002) {
		t.Errorf("Rice confidence = %.4f, want ~0.5605", rice.Confidence)
	}
	if rice.InputCost != 37500 {
		t.Errorf("Rice input cost = %.0f, want 37500", rice.InputCost)
	}
	if len(rice.Reasons) == 0 {
		t.Error("Rice has no reasons")
	}

	var irrigation *AdvisoryItem
	for i := range res.Advisories {
		if res.Advisories[i].Type == AdvisoryIrrigation {
			irrigation = &res.Advisories[i]
		}
	}
	if irrigation == nil {
		t.Fatal("no irrigation advisory despite 15mm forecast rainfall")
	}
	if irrigation.Urgency != UrgencyMedium {
		t.Errorf("irrigation urgency = %s, want Medium (deficit 70%%)", irrigation.Urgency)
	}

	if res.Narrative == "" {
		t.Error("narrative is empty")
	}
	if res.NarrativeSource != narrative.SourceTemplate {
		t.Errorf("narrative source = %s, want template (nil generator)", res.NarrativeSource)
	}
}

func TestRecommendScoreInvariants(t *testing.T) {
	e := testEngine(t, november)
	q := maharashtraQuery()
	q.Verbose = true
	res, err := e.Recommend(context.Background(), q, drySnapshot(november), rabiPrices())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, c := range res.Candidates {
		for name, v := range map[string]float64{
			"suitability": c.Suitability,
			"market":      c.MarketScore,
			"confidence":  c.Confidence,
			"weather":     c.Risk.Weather,
			"market risk": c.Risk.Market,
			"pest":        c.Risk.Pest,
			"financial":   c.Risk.Financial,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s: %s score %.4f outside [0,1]", c.Crop, name, v)
			}
		}
		if c.Excluded && c.ExclusionReason == "" {
			t.Errorf("%s excluded without a reason", c.Crop)
		}
	}

	for i := 1; i < len(res.Recommendations); i++ {
		if res.Recommendations[i].Confidence > res.Recommendations[i-1].Confidence {
			t.Errorf("recommendations not sorted: %s (%.4f) after %s (%.4f)",
				res.Recommendations[i].Crop, res.Recommendations[i].Confidence,
				res.Recommendations[i-1].Crop, res.Recommendations[i-1].Confidence)
		}
	}
}

func TestRecommendEmptyPricesScoresNeutral(t *testing.T) {
	e := testEngine(t, november)
	res, err := e.Recommend(context.Background(), maharashtraQuery(), drySnapshot(november), nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, c := range res.Recommendations {
		if c.MarketScore != 0.5 {
			t.Errorf("%s market score = %.4f with no prices, want exactly 0.5", c.Crop, c.MarketScore)
		}
	}
	if res.MarketAnalysis.Sentiment != market.SentimentNeutral {
		t.Errorf("sentiment = %s with no prices, want Neutral", res.MarketAnalysis.Sentiment)
	}
	found := false
	for _, n := range res.Notes {
		if strings.Contains(n, "no live commodity prices") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing degraded-prices note, got %v", res.Notes)
	}
}

func TestRecommendNilSnapshotUsesNeutral(t *testing.T) {
	e := testEngine(t, november)
	res, err := e.Recommend(context.Background(), maharashtraQuery(), nil, rabiPrices())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("no recommendations under neutral weather")
	}
	found := false
	for _, n := range res.Notes {
		if strings.Contains(n, "neutral conditions assumed") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing neutral-weather note, got %v", res.Notes)
	}
}

func TestRecommendLowToleranceExcludesHighRisk(t *testing.T) {
	june := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	e := testEngine(t, june)

	q := maharashtraQuery()
	q.RiskTolerance = ToleranceLow
	q.Verbose = true

	res, err := e.Recommend(context.Background(), q, nil, nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	// Sugarcane and Cotton carry High baseline pest risk, landing them
	// in the High aggregate tier: two tiers above Low tolerance.
	for _, c := range res.Recommendations {
		if c.Crop == "Sugarcane" || c.Crop == "Cotton" {
			t.Errorf("%s recommended despite Low risk tolerance", c.Crop)
		}
	}

	excluded := map[string]bool{}
	for _, c := range res.Candidates {
		if c.Excluded {
			excluded[c.Crop] = true
			if !strings.Contains(c.ExclusionReason, "tolerance") {
				t.Errorf("%s exclusion reason %q does not mention tolerance", c.Crop, c.ExclusionReason)
			}
		}
	}
	if !excluded["Sugarcane"] {
		t.Error("Sugarcane not present as an excluded candidate")
	}
}

func TestRecommendNoCandidatesStillAdvises(t *testing.T) {
	e := testEngine(t, november)
	q := maharashtraQuery()
	q.Location.Soil = agri.SoilDesert // nothing in the dataset tolerates it

	res, err := e.Recommend(context.Background(), q, drySnapshot(november), nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(res.Recommendations) != 0 {
		t.Fatalf("got %d recommendations for Desert soil, want 0", len(res.Recommendations))
	}
	found := false
	for _, a := range res.Advisories {
		if strings.Contains(a.Title, "No Suitable Crop") {
			found = true
		}
	}
	if !found {
		t.Error("missing explanatory advisory for empty candidate set")
	}
	if res.Narrative == "" {
		t.Error("narrative skipped for empty candidate set")
	}
}

func TestRecommendPreferredBonus(t *testing.T) {
	e := testEngine(t, november)

	base, err := e.Recommend(context.Background(), maharashtraQuery(), drySnapshot(november), rabiPrices())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	q := maharashtraQuery()
	q.PreferredCrops = []string{"Wheat"}
	pref, err := e.Recommend(context.Background(), q, drySnapshot(november), rabiPrices())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	find := func(res *Result, name string) CropScore {
		for _, c := range res.Recommendations {
			if c.Crop == name {
				return c
			}
		}
		t.Fatalf("%s not recommended", name)
		return CropScore{}
	}
	delta := find(pref, "Wheat").Confidence - find(base, "Wheat").Confidence
	if !almost(delta, 0.1, 0.0005) {
		t.Errorf("preferred bonus moved confidence by %.4f, want 0.1", delta)
	}
}

func TestRecommendInvalidQuery(t *testing.T) {
	e := testEngine(t, november)
	cases := []struct {
		name   string
		mutate func(*FarmerQuery)
	}{
		{"unknown state", func(q *FarmerQuery) { q.Location.State = "Atlantis" }},
		{"zero budget", func(q *FarmerQuery) { q.Budget = 0 }},
		{"negative land", func(q *FarmerQuery) { q.LandSize = -1 }},
		{"bad tolerance", func(q *FarmerQuery) { q.RiskTolerance = "Extreme" }},
		{"missing soil", func(q *FarmerQuery) { q.Location.Soil = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := maharashtraQuery()
			tc.mutate(&q)
			if _, err := e.Recommend(context.Background(), q, nil, nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

type failingDB struct{}

func (failingDB) CropsForSoil(agri.SoilType, agri.Season) ([]agri.CropProfile, error) {
	return nil, errors.New("connection refused")
}
func (failingDB) Crop(string) (agri.CropProfile, error)     { return agri.CropProfile{}, agri.ErrNotFound }
func (failingDB) Region(string) (agri.RegionProfile, error) { return agri.RegionProfile{}, agri.ErrNotFound }
func (failingDB) Crops() ([]agri.CropProfile, error)        { return nil, errors.New("connection refused") }

func TestRecommendReferenceDBFailure(t *testing.T) {
	e := New(failingDB{}, Default(), nil)
	e.nowFn = func() time.Time { return november }

	_, err := e.Recommend(context.Background(), maharashtraQuery(), nil, nil)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}
