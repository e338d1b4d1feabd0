package weather

import "math"

// Rating is the coarse agricultural suitability of current conditions.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
)

// Summary condenses a snapshot into the figures the scoring pipeline
// consumes. NaN fields mean the underlying readings were missing.
type Summary struct {
	CurrentTemp   float64 `json:"current_temp"`
	AvgTemp       float64 `json:"avg_temp"`
	MinTemp       float64 `json:"min_temp"`
	MaxTemp       float64 `json:"max_temp"`
	TotalRainfall float64 `json:"total_rainfall_7days"` // mm over the forecast window
	AvgHumidity   float64 `json:"avg_humidity"`
	HumidityLevel string  `json:"humidity_level"` // Low/Medium/High
	Rating        Rating  `json:"rating"`
	ForecastDays  int     `json:"forecast_days"`
}

// Summarize derives planning figures from a snapshot. With an empty
// forecast the current observation stands in for the whole window.
func Summarize(s Snapshot) Summary {
	obs := s.Forecast
	if len(obs) == 0 {
		obs = []Observation{s.Current}
	}

	var (
		temps, hums []float64
		rainTotal   float64
		rainSeen    bool
	)
	for _, o := range obs {
		if !math.IsNaN(o.Temperature) {
			temps = append(temps, o.Temperature)
		}
		if !math.IsNaN(o.Humidity) {
			hums = append(hums, o.Humidity)
		}
		if !math.IsNaN(o.Rainfall) {
			rainTotal += o.Rainfall
			rainSeen = true
		}
	}

	sum := Summary{
		CurrentTemp:   s.Current.Temperature,
		AvgTemp:       mean(temps),
		MinTemp:       minOf(temps),
		MaxTemp:       maxOf(temps),
		TotalRainfall: math.NaN(),
		AvgHumidity:   mean(hums),
		ForecastDays:  len(s.Forecast),
	}
	if rainSeen {
		sum.TotalRainfall = rainTotal
	}
	sum.HumidityLevel = humidityLevel(sum.AvgHumidity)
	sum.Rating = assess(sum.AvgTemp, sum.TotalRainfall, sum.AvgHumidity)
	return sum
}

func humidityLevel(h float64) string {
	switch {
	case math.IsNaN(h):
		return "Medium"
	case h > 70:
		return "High"
	case h > 50:
		return "Medium"
	default:
		return "Low"
	}
}

// assess grades overall conditions on a 3-9 point scale. Missing
// attributes score the middle band.
func assess(temp, rainfall, humidity float64) Rating {
	score := 0

	switch {
	case math.IsNaN(temp):
		score += 2
	case temp >= 20 && temp <= 30:
		score += 3
	case temp >= 15 && temp <= 35:
		score += 2
	default:
		score++
	}

	switch {
	case math.IsNaN(rainfall):
		score += 2
	case rainfall >= 50 && rainfall <= 200:
		score += 3
	case rainfall >= 25 && rainfall <= 300:
		score += 2
	default:
		score++
	}

	switch {
	case math.IsNaN(humidity):
		score += 2
	case humidity >= 60 && humidity <= 80:
		score += 3
	case humidity >= 40 && humidity <= 90:
		score += 2
	default:
		score++
	}

	switch {
	case score >= 8:
		return RatingExcellent
	case score >= 6:
		return RatingGood
	case score >= 4:
		return RatingFair
	default:
		return RatingPoor
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
