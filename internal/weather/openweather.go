package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client fetches conditions from an OpenWeather-compatible API. Callers
// substitute Neutral() when a fetch fails; the client itself does not
// hide errors.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client against the public OpenWeather endpoint.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    "https://api.openweathermap.org/data/2.5",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type owCurrent struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

type owForecast struct {
	List []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// FetchSnapshot retrieves current conditions and a daily forecast for
// the coordinates. Three-hourly forecast entries are folded into daily
// buckets: temperatures and humidity averaged, rainfall summed.
func (c *Client) FetchSnapshot(ctx context.Context, lat, lon float64) (Snapshot, error) {
	var cur owCurrent
	if err := c.get(ctx, "/weather", lat, lon, &cur); err != nil {
		return Snapshot{}, fmt.Errorf("current weather: %w", err)
	}

	now := time.Now()
	snap := Snapshot{
		Current: Observation{
			Temperature: cur.Main.Temp,
			Humidity:    cur.Main.Humidity,
			Rainfall:    cur.Rain.OneHour,
			WindSpeed:   cur.Wind.Speed * 3.6,
			Pressure:    cur.Main.Pressure,
			CloudCover:  cur.Clouds.All,
			Time:        now,
		},
	}

	var fc owForecast
	if err := c.get(ctx, "/forecast", lat, lon, &fc); err != nil {
		return Snapshot{}, fmt.Errorf("forecast: %w", err)
	}

	type bucket struct {
		temp, hum, wind, pressure, cloud, rain float64
		n                                      int
		day                                    time.Time
	}
	var days []*bucket
	byDay := make(map[string]*bucket)
	for _, item := range fc.List {
		t := time.Unix(item.DT, 0)
		key := t.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			if len(days) == 7 {
				break
			}
			b = &bucket{day: t.Truncate(24 * time.Hour)}
			byDay[key] = b
			days = append(days, b)
		}
		b.temp += item.Main.Temp
		b.hum += item.Main.Humidity
		b.wind += item.Wind.Speed * 3.6
		b.pressure += item.Main.Pressure
		b.cloud += item.Clouds.All
		b.rain += item.Rain.ThreeHour
		b.n++
	}
	for _, b := range days {
		n := float64(b.n)
		snap.Forecast = append(snap.Forecast, Observation{
			Temperature: b.temp / n,
			Humidity:    b.hum / n,
			Rainfall:    b.rain,
			WindSpeed:   b.wind / n,
			Pressure:    b.pressure / n,
			CloudCover:  b.cloud / n,
			Time:        b.day,
		})
	}

	return Sanitize(snap), nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, out any) error {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
