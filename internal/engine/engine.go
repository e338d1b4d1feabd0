package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"cropadvisor/internal/agri"
	"cropadvisor/internal/market"
	"cropadvisor/internal/narrative"
	"cropadvisor/internal/weather"
)

// stage names the phases of one recommendation run, in order. Narrating
// is never skipped: even an empty candidate set gets a narrative.
type stage string

const (
	stageCollecting stage = "collecting_inputs"
	stageScoring    stage = "scoring"
	stageRanking    stage = "ranking"
	stageAdvising   stage = "advising"
	stageNarrating  stage = "narrating"
	stageComplete   stage = "complete"
)

// Engine orchestrates one recommendation per call. It is safe for
// concurrent use: all per-query state lives on the stack.
type Engine struct {
	db     agri.Database
	policy Policy
	aug    *narrative.Augmenter

	// nowFn is swapped in tests to pin the season.
	nowFn func() time.Time
}

// New builds an engine over the reference database. aug may be nil, in
// which case every narrative comes from the template.
func New(db agri.Database, policy Policy, aug *narrative.Augmenter) *Engine {
	return &Engine{db: db, policy: policy, aug: aug, nowFn: time.Now}
}

// Recommend runs the full pipeline. snap may be nil when no weather
// could be fetched; the neutral snapshot then stands in and the
// degradation is recorded in the result's notes. prices may be empty.
// The only error returned is ErrDataUnavailable (wrapped); every other
// condition resolves to a complete result.
func (e *Engine) Recommend(ctx context.Context, q FarmerQuery, snap *weather.Snapshot, prices market.PriceMap) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	now := e.nowFn()
	season := agri.SeasonForMonth(now.Month())
	st := stageCollecting

	res := &Result{
		Season:      season,
		GeneratedAt: now,
	}

	if snap == nil {
		neutral := weather.Neutral(now)
		snap = &neutral
		res.Notes = append(res.Notes, "live weather unavailable, neutral conditions assumed")
	}
	sum := weather.Summarize(weather.Sanitize(*snap))

	candidates, err := e.db.CropsForSoil(q.Location.Soil, season)
	if err != nil {
		return nil, fmt.Errorf("%w: reference data: %v", ErrDataUnavailable, err)
	}
	if len(prices) == 0 {
		res.Notes = append(res.Notes, "no live commodity prices, market scored neutrally")
	}

	res.LocationSummary = e.locationSummary(q.Location)

	st = stageScoring
	scored := make([]CropScore, 0, len(candidates))
	for _, crop := range candidates {
		scored = append(scored, e.score(crop, q, sum, prices, season, true))
	}
	// Preferred crops outside the soil gate are scored for diagnostics
	// but never recommended.
	if q.Verbose {
		scored = append(scored, e.offSoilPreferred(q, candidates, sum, prices, season)...)
	}

	st = stageRanking
	recommended, rest := e.policy.rank(scored)
	res.Recommendations = recommended
	if q.Verbose {
		res.Candidates = append(append([]CropScore{}, recommended...), rest...)
	}
	if len(recommended) == 0 && len(candidates) > 0 {
		res.Notes = append(res.Notes, "all candidates exceeded the stated risk tolerance")
	}

	st = stageAdvising
	res.MarketAnalysis = market.Analyze(prices)
	res.Advisories = e.policy.advisories(sum, res.MarketAnalysis, prices, recommended)

	st = stageNarrating
	res.Narrative, res.NarrativeSource = e.narrate(ctx, q, sum, prices, res)

	st = stageComplete
	log.Printf("recommendation complete: state=%s season=%s candidates=%d recommended=%d stage=%s",
		q.Location.State, season, len(candidates), len(recommended), st)
	return res, nil
}

// score produces the full record for one crop. soilMatch is false only
// for diagnostic scoring of off-soil preferred crops.
func (e *Engine) score(crop agri.CropProfile, q FarmerQuery, sum weather.Summary, prices market.PriceMap, season agri.Season, soilMatch bool) CropScore {
	p := e.policy

	suit, reasons := p.suitability(crop, sum)
	mkt, mktReasons := p.marketScore(crop, prices)
	reasons = append(reasons, mktReasons...)

	cost, yield, price, profit := financials(crop, q.LandSize, suit, prices)
	risk, level, riskReasons := p.assessRisk(crop, sum, mkt, cost, q.Budget, prices)
	reasons = append(reasons, riskReasons...)

	if crop.GrownIn(q.Location.State) {
		reasons = append(reasons, fmt.Sprintf("%s is a major crop of %s", crop.Name, q.Location.State))
	}

	conf, confReasons := p.confidence(suit, mkt, level, q.Prefers(crop.Name), soilMatch)
	reasons = append(reasons, confReasons...)

	cs := CropScore{
		Crop:                  crop.Name,
		Suitability:           round4(suit),
		MarketScore:           round4(mkt),
		Risk:                  risk,
		RiskLevel:             level,
		ExpectedYield:         yield,
		ExpectedProfit:        profit,
		InputCost:             cost,
		MarketPrice:           price,
		Confidence:            conf,
		PlantingSeason:        season,
		PlantingTime:          season.PlantingWindow(),
		HarvestingTime:        season.HarvestingWindow(),
		WaterRequirement:      crop.WaterRequirement,
		FertilizerRequirement: crop.FertilizerRequirement,
		PestRisk:              crop.PestRisk,
		MarketDemand:          crop.MarketDemand,
		Reasons:               reasons,
	}

	switch {
	case !soilMatch:
		cs.Excluded = true
		cs.ExclusionReason = fmt.Sprintf("not suited to %s soil", q.Location.Soil)
	case exceedsTolerance(level, q.RiskTolerance):
		cs.Excluded = true
		cs.ExclusionReason = fmt.Sprintf("%s risk exceeds %s tolerance", level, q.RiskTolerance)
	}
	return cs
}

// offSoilPreferred scores preferred crops that failed the soil gate so
// verbose callers can see why they were not recommended.
func (e *Engine) offSoilPreferred(q FarmerQuery, candidates []agri.CropProfile, sum weather.Summary, prices market.PriceMap, season agri.Season) []CropScore {
	inSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inSet[c.Name] = true
	}

	var out []CropScore
	for _, name := range q.PreferredCrops {
		if inSet[name] {
			continue
		}
		crop, err := e.db.Crop(name)
		if err != nil {
			if !errors.Is(err, agri.ErrNotFound) {
				log.Printf("crop lookup %q: %v", name, err)
			}
			continue
		}
		if !crop.InSeason(season) {
			continue
		}
		out = append(out, e.score(crop, q, sum, prices, season, false))
	}
	return out
}

func (e *Engine) locationSummary(loc Location) LocationSummary {
	ls := LocationSummary{
		State:    loc.State,
		District: loc.District,
		SoilType: loc.Soil,
	}
	region, err := e.db.Region(loc.State)
	if err != nil {
		log.Printf("regional data for %s: %v", loc.State, err)
		return ls
	}
	ls.Climate = region.Climate
	ls.IrrigationCoverage = region.IrrigationCoverage
	ls.AverageRainfall = region.AverageRainfall
	ls.MajorCrops = region.MajorCrops
	return ls
}

func (e *Engine) narrate(ctx context.Context, q FarmerQuery, sum weather.Summary, prices market.PriceMap, res *Result) (string, narrative.Source) {
	in := narrative.Input{
		State:         q.Location.State,
		District:      q.Location.District,
		Soil:          string(q.Location.Soil),
		LandSize:      q.LandSize,
		Budget:        q.Budget,
		RiskTolerance: string(q.RiskTolerance),
		WeatherRating: string(sum.Rating),
		CurrentTemp:   sum.CurrentTemp,
		Humidity:      sum.AvgHumidity,
		TotalRainfall: sum.TotalRainfall,
	}
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := prices[name]
		in.Prices = append(in.Prices, narrative.PriceLine{
			Name: p.Commodity, Price: p.Current, Trend: string(p.Trend),
		})
	}
	for _, c := range res.Recommendations {
		in.Crops = append(in.Crops, narrative.CropLine{
			Name: c.Crop, Confidence: c.Confidence, Profit: c.ExpectedProfit, Reasons: c.Reasons,
		})
	}
	for _, a := range res.Advisories {
		in.Advisories = append(in.Advisories, narrative.AdvisoryLine{
			Title: a.Title, Description: a.Description, Urgency: string(a.Urgency),
		})
	}
	return e.aug.Narrate(ctx, in)
}
