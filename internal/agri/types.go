package agri

import (
	"errors"
	"time"
)

// Season is one of the three Indian cropping seasons.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
	SeasonZaid   Season = "Zaid"
)

// SeasonForMonth maps a calendar month to the cropping season in progress.
// October belongs to both Kharif and Rabi; Kharif wins because harvesting
// dominates planting decisions that month.
func SeasonForMonth(m time.Month) Season {
	switch {
	case m >= time.June && m <= time.October:
		return SeasonKharif
	case m >= time.November || m <= time.March:
		return SeasonRabi
	default:
		return SeasonZaid
	}
}

// PlantingWindow returns the typical sowing window for the season.
func (s Season) PlantingWindow() string {
	switch s {
	case SeasonKharif:
		return "June-July"
	case SeasonRabi:
		return "October-November"
	default:
		return "March-April"
	}
}

// HarvestingWindow returns the typical harvest window for the season.
func (s Season) HarvestingWindow() string {
	switch s {
	case SeasonKharif:
		return "October-November"
	case SeasonRabi:
		return "March-April"
	default:
		return "May-June"
	}
}

// SoilType classifies the dominant soil of a location.
type SoilType string

const (
	SoilAlluvial SoilType = "Alluvial"
	SoilBlack    SoilType = "Black"
	SoilRed      SoilType = "Red"
	SoilLaterite SoilType = "Laterite"
	SoilSandy    SoilType = "Sandy"
	SoilLoamy    SoilType = "Loamy"
	SoilClay     SoilType = "Clay"
	SoilMountain SoilType = "Mountain"
	SoilDesert   SoilType = "Desert"
)

// Level is a coarse Low/Medium/High grading used for crop requirements
// and baseline risks.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Range is an inclusive numeric band.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the band.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Distance returns how far v lies outside the band, zero when inside.
func (r Range) Distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	default:
		return 0
	}
}

// CropProfile is the reference record for one crop. Yields are in
// quintals, prices in rupees per quintal, costs in rupees per hectare.
type CropProfile struct {
	Name                  string     `json:"name"`
	Seasons               []Season   `json:"seasons"`
	SoilTypes             []SoilType `json:"soil_types"`
	Temperature           Range      `json:"temperature_range"`
	Rainfall              Range      `json:"rainfall_requirement"`
	Humidity              Range      `json:"humidity_requirement"`
	YieldPerHectare       float64    `json:"yield_per_hectare"`
	BaselinePrice         float64    `json:"baseline_price"`
	InputCostPerHectare   float64    `json:"input_cost_per_hectare"`
	WaterRequirement      Level      `json:"water_requirement"`
	FertilizerRequirement Level      `json:"fertilizer_requirement"`
	PestRisk              Level      `json:"pest_risk"`
	MarketDemand          Level      `json:"market_demand"`
	MajorStates           []string   `json:"major_states"`
}

// SuitsSoil reports whether the crop tolerates the given soil type.
func (c CropProfile) SuitsSoil(s SoilType) bool {
	for _, t := range c.SoilTypes {
		if t == s {
			return true
		}
	}
	return false
}

// InSeason reports whether the crop can be planted in the given season.
func (c CropProfile) InSeason(s Season) bool {
	for _, t := range c.Seasons {
		if t == s {
			return true
		}
	}
	return false
}

// GrownIn reports whether the crop is a major crop of the state.
func (c CropProfile) GrownIn(state string) bool {
	for _, st := range c.MajorStates {
		if st == state {
			return true
		}
	}
	return false
}

// RegionProfile holds state-level agricultural reference data.
type RegionProfile struct {
	State              string   `json:"state"`
	SoilType           SoilType `json:"soil_type"`
	Climate            string   `json:"climate"`
	MajorCrops         []string `json:"major_crops"`
	IrrigationCoverage int      `json:"irrigation_coverage"`
	AverageRainfall    float64  `json:"average_rainfall"`
}

// ErrNotFound is returned when a crop or region is absent from the
// reference database.
var ErrNotFound = errors.New("not found")

// Database is the reference-data collaborator. CropsForSoil may return an
// empty slice; that is a valid result, not an error.
type Database interface {
	// CropsForSoil returns the profiles of crops that tolerate the soil
	// type and can be planted in the season.
	CropsForSoil(soil SoilType, season Season) ([]CropProfile, error)
	// Crop returns a single profile by name.
	Crop(name string) (CropProfile, error)
	// Region returns state-level reference data.
	Region(state string) (RegionProfile, error)
	// Crops returns every known profile, sorted by name.
	Crops() ([]CropProfile, error)
}

// States lists the 28 supported administrative regions.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal",
}

// KnownState reports whether the state is a supported region.
func KnownState(s string) bool {
	for _, st := range States {
		if st == s {
			return true
		}
	}
	return false
}
