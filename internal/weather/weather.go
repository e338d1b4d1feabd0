// Package weather defines the weather collaborator contract: snapshot
// types, an OpenWeather-backed client, a neutral fallback snapshot, and
// summary derivation for agricultural planning.
package weather

import (
	"math"
	"time"
)

// Observation is one set of atmospheric readings. A NaN field means the
// reading is missing; downstream scoring treats missing values as
// neutral rather than as failures.
type Observation struct {
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // percent
	Rainfall    float64   `json:"rainfall"`    // mm
	WindSpeed   float64   `json:"wind_speed"`  // km/h
	Pressure    float64   `json:"pressure"`    // hPa
	UVIndex     float64   `json:"uv_index"`
	CloudCover  float64   `json:"cloud_cover"` // percent
	Time        time.Time `json:"time"`
}

// Snapshot is the current conditions plus a short daily forecast.
type Snapshot struct {
	Current  Observation   `json:"current"`
	Forecast []Observation `json:"forecast"` // up to 7 daily entries
}

// Neutral returns the predefined fallback snapshot used when no live
// weather data can be obtained.
func Neutral(now time.Time) Snapshot {
	current := Observation{
		Temperature: 25.0,
		Humidity:    60.0,
		Rainfall:    0.0,
		WindSpeed:   10.0,
		Pressure:    1013.25,
		UVIndex:     5.0,
		CloudCover:  50.0,
		Time:        now,
	}
	forecast := make([]Observation, 7)
	for i := range forecast {
		forecast[i] = current
		forecast[i].Temperature = 25.0 + float64(i)*0.5
		forecast[i].Time = now.AddDate(0, 0, i+1)
	}
	return Snapshot{Current: current, Forecast: forecast}
}

// physically plausible reading bounds; values outside are treated as
// missing at the boundary instead of propagating into scoring.
var plausible = map[string][2]float64{
	"temperature": {-60, 60},
	"humidity":    {0, 100},
	"rainfall":    {0, 5000},
}

// Sanitize replaces implausible readings with NaN so the rest of the
// pipeline sees them as degraded data.
func Sanitize(s Snapshot) Snapshot {
	s.Current = sanitizeObservation(s.Current)
	for i := range s.Forecast {
		s.Forecast[i] = sanitizeObservation(s.Forecast[i])
	}
	return s
}

func sanitizeObservation(o Observation) Observation {
	o.Temperature = boundOrNaN("temperature", o.Temperature)
	o.Humidity = boundOrNaN("humidity", o.Humidity)
	o.Rainfall = boundOrNaN("rainfall", o.Rainfall)
	return o
}

func boundOrNaN(field string, v float64) float64 {
	b := plausible[field]
	if math.IsNaN(v) || v < b[0] || v > b[1] {
		return math.NaN()
	}
	return v
}
