package agri

import "sort"

// Memory is the compiled-in reference database. It is immutable after
// construction and safe for concurrent readers.
type Memory struct {
	crops   map[string]CropProfile
	regions map[string]RegionProfile
}

// NewMemory returns the default embedded dataset.
func NewMemory() *Memory {
	return NewMemoryWith(DefaultCrops(), DefaultRegions())
}

// NewMemoryWith builds an in-memory database from the given profiles.
func NewMemoryWith(crops []CropProfile, regions []RegionProfile) *Memory {
	m := &Memory{
		crops:   make(map[string]CropProfile, len(crops)),
		regions: make(map[string]RegionProfile, len(regions)),
	}
	for _, c := range crops {
		m.crops[c.Name] = c
	}
	for _, r := range regions {
		m.regions[r.State] = r
	}
	return m
}

func (m *Memory) CropsForSoil(soil SoilType, season Season) ([]CropProfile, error) {
	var out []CropProfile
	for _, c := range m.crops {
		if c.SuitsSoil(soil) && c.InSeason(season) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) Crop(name string) (CropProfile, error) {
	c, ok := m.crops[name]
	if !ok {
		return CropProfile{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) Region(state string) (RegionProfile, error) {
	r, ok := m.regions[state]
	if !ok {
		return RegionProfile{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) Crops() ([]CropProfile, error) {
	out := make([]CropProfile, 0, len(m.crops))
	for _, c := range m.crops {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DefaultCrops returns the embedded crop dataset. Rainfall requirements
// are per season in mm, yields in quintals per hectare.
func DefaultCrops() []CropProfile {
	return []CropProfile{
		{
			Name:                  "Rice",
			Seasons:               []Season{SeasonKharif, SeasonRabi},
			SoilTypes:             []SoilType{SoilAlluvial, SoilBlack, SoilClay},
			Temperature:           Range{20, 35},
			Rainfall:              Range{1000, 2000},
			Humidity:              Range{70, 90},
			YieldPerHectare:       35,
			BaselinePrice:         2200,
			InputCostPerHectare:   15000,
			WaterRequirement:      LevelHigh,
			FertilizerRequirement: LevelHigh,
			PestRisk:              LevelMedium,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"West Bengal", "Punjab", "Uttar Pradesh", "Andhra Pradesh", "Tamil Nadu"},
		},
		{
			Name:                  "Wheat",
			Seasons:               []Season{SeasonRabi},
			SoilTypes:             []SoilType{SoilAlluvial, SoilBlack, SoilLoamy},
			Temperature:           Range{15, 25},
			Rainfall:              Range{500, 800},
			Humidity:              Range{50, 70},
			YieldPerHectare:       30,
			BaselinePrice:         2100,
			InputCostPerHectare:   12000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelMedium,
			PestRisk:              LevelLow,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Punjab", "Haryana", "Uttar Pradesh", "Madhya Pradesh", "Rajasthan"},
		},
		{
			Name:                  "Maize",
			Seasons:               []Season{SeasonKharif, SeasonRabi},
			SoilTypes:             []SoilType{SoilAlluvial, SoilRed, SoilBlack, SoilLoamy},
			Temperature:           Range{18, 30},
			Rainfall:              Range{600, 1000},
			Humidity:              Range{60, 80},
			YieldPerHectare:       40,
			BaselinePrice:         1800,
			InputCostPerHectare:   13000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelMedium,
			PestRisk:              LevelMedium,
			MarketDemand:          LevelMedium,
			MajorStates:           []string{"Karnataka", "Andhra Pradesh", "Maharashtra", "Bihar", "Uttar Pradesh"},
		},
		{
			Name:                  "Sugarcane",
			Seasons:               []Season{SeasonKharif},
			SoilTypes:             []SoilType{SoilAlluvial, SoilBlack, SoilLoamy},
			Temperature:           Range{25, 35},
			Rainfall:              Range{1000, 1500},
			Humidity:              Range{70, 85},
			YieldPerHectare:       800,
			BaselinePrice:         350,
			InputCostPerHectare:   45000,
			WaterRequirement:      LevelHigh,
			FertilizerRequirement: LevelHigh,
			PestRisk:              LevelHigh,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Uttar Pradesh", "Maharashtra", "Karnataka", "Tamil Nadu", "Gujarat"},
		},
		{
			Name:                  "Cotton",
			Seasons:               []Season{SeasonKharif},
			SoilTypes:             []SoilType{SoilBlack, SoilRed},
			Temperature:           Range{20, 35},
			Rainfall:              Range{500, 1000},
			Humidity:              Range{60, 80},
			YieldPerHectare:       25,
			BaselinePrice:         6000,
			InputCostPerHectare:   22000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelHigh,
			PestRisk:              LevelHigh,
			MarketDemand:          LevelMedium,
			MajorStates:           []string{"Gujarat", "Maharashtra", "Punjab", "Haryana", "Rajasthan"},
		},
		{
			Name:                  "Soybean",
			Seasons:               []Season{SeasonKharif},
			SoilTypes:             []SoilType{SoilBlack, SoilRed, SoilLoamy},
			Temperature:           Range{20, 30},
			Rainfall:              Range{600, 1000},
			Humidity:              Range{60, 80},
			YieldPerHectare:       20,
			BaselinePrice:         4500,
			InputCostPerHectare:   14000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelMedium,
			PestRisk:              LevelMedium,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Madhya Pradesh", "Maharashtra", "Rajasthan", "Karnataka"},
		},
		{
			Name:                  "Groundnut",
			Seasons:               []Season{SeasonKharif, SeasonRabi},
			SoilTypes:             []SoilType{SoilRed, SoilLaterite, SoilSandy},
			Temperature:           Range{20, 30},
			Rainfall:              Range{500, 800},
			Humidity:              Range{50, 70},
			YieldPerHectare:       15,
			BaselinePrice:         5500,
			InputCostPerHectare:   11000,
			WaterRequirement:      LevelLow,
			FertilizerRequirement: LevelLow,
			PestRisk:              LevelLow,
			MarketDemand:          LevelMedium,
			MajorStates:           []string{"Gujarat", "Rajasthan", "Tamil Nadu", "Andhra Pradesh", "Karnataka"},
		},
		{
			Name:                  "Potato",
			Seasons:               []Season{SeasonRabi, SeasonZaid},
			SoilTypes:             []SoilType{SoilAlluvial, SoilRed, SoilSandy, SoilLoamy},
			Temperature:           Range{15, 25},
			Rainfall:              Range{300, 500},
			Humidity:              Range{60, 80},
			YieldPerHectare:       250,
			BaselinePrice:         1200,
			InputCostPerHectare:   35000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelHigh,
			PestRisk:              LevelHigh,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Uttar Pradesh", "West Bengal", "Punjab", "Bihar", "Gujarat"},
		},
		{
			Name:                  "Onion",
			Seasons:               []Season{SeasonRabi, SeasonKharif},
			SoilTypes:             []SoilType{SoilAlluvial, SoilRed, SoilLoamy},
			Temperature:           Range{15, 30},
			Rainfall:              Range{300, 600},
			Humidity:              Range{50, 70},
			YieldPerHectare:       200,
			BaselinePrice:         1500,
			InputCostPerHectare:   30000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelMedium,
			PestRisk:              LevelMedium,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Maharashtra", "Karnataka", "Gujarat", "Madhya Pradesh", "Rajasthan"},
		},
		{
			Name:                  "Tomato",
			Seasons:               []Season{SeasonKharif, SeasonRabi, SeasonZaid},
			SoilTypes:             []SoilType{SoilAlluvial, SoilRed, SoilLoamy},
			Temperature:           Range{18, 28},
			Rainfall:              Range{400, 800},
			Humidity:              Range{60, 80},
			YieldPerHectare:       300,
			BaselinePrice:         1600,
			InputCostPerHectare:   40000,
			WaterRequirement:      LevelMedium,
			FertilizerRequirement: LevelHigh,
			PestRisk:              LevelHigh,
			MarketDemand:          LevelHigh,
			MajorStates:           []string{"Karnataka", "Andhra Pradesh", "Maharashtra", "Gujarat", "Tamil Nadu"},
		},
	}
}

// DefaultRegions returns the embedded state-level dataset.
func DefaultRegions() []RegionProfile {
	return []RegionProfile{
		{State: "Punjab", SoilType: SoilAlluvial, Climate: "Semi-arid",
			MajorCrops: []string{"Wheat", "Rice", "Cotton", "Sugarcane"}, IrrigationCoverage: 95, AverageRainfall: 500},
		{State: "Haryana", SoilType: SoilAlluvial, Climate: "Semi-arid",
			MajorCrops: []string{"Wheat", "Rice", "Cotton", "Sugarcane"}, IrrigationCoverage: 90, AverageRainfall: 600},
		{State: "Uttar Pradesh", SoilType: SoilAlluvial, Climate: "Tropical",
			MajorCrops: []string{"Wheat", "Rice", "Sugarcane", "Potato"}, IrrigationCoverage: 70, AverageRainfall: 1000},
		{State: "Maharashtra", SoilType: SoilBlack, Climate: "Tropical",
			MajorCrops: []string{"Sugarcane", "Cotton", "Soybean", "Onion"}, IrrigationCoverage: 60, AverageRainfall: 800},
		{State: "Gujarat", SoilType: SoilBlack, Climate: "Arid",
			MajorCrops: []string{"Cotton", "Groundnut", "Wheat", "Onion"}, IrrigationCoverage: 50, AverageRainfall: 400},
		{State: "Karnataka", SoilType: SoilRed, Climate: "Tropical",
			MajorCrops: []string{"Maize", "Sugarcane", "Tomato", "Onion"}, IrrigationCoverage: 40, AverageRainfall: 1200},
		{State: "Tamil Nadu", SoilType: SoilRed, Climate: "Tropical",
			MajorCrops: []string{"Rice", "Sugarcane", "Groundnut", "Cotton"}, IrrigationCoverage: 80, AverageRainfall: 1000},
		{State: "West Bengal", SoilType: SoilAlluvial, Climate: "Tropical",
			MajorCrops: []string{"Rice", "Potato", "Jute", "Tea"}, IrrigationCoverage: 85, AverageRainfall: 1500},
	}
}
