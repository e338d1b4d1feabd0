package agri

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Postgres serves reference data from a shared PostgreSQL instance, for
// deployments where the crop catalogue is curated centrally.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against connStr and verifies it.
func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

const pgCropColumns = `
	name, seasons, soil_types,
	temp_min, temp_max, rain_min, rain_max, humidity_min, humidity_max,
	yield_per_hectare, baseline_price, input_cost_per_hectare,
	water_requirement, fertilizer_requirement, pest_risk, market_demand,
	major_states`

func scanPGCrop(scan func(dest ...any) error) (CropProfile, error) {
	var c CropProfile
	var seasons, soils, states pq.StringArray
	err := scan(&c.Name, &seasons, &soils,
		&c.Temperature.Min, &c.Temperature.Max,
		&c.Rainfall.Min, &c.Rainfall.Max,
		&c.Humidity.Min, &c.Humidity.Max,
		&c.YieldPerHectare, &c.BaselinePrice, &c.InputCostPerHectare,
		&c.WaterRequirement, &c.FertilizerRequirement,
		&c.PestRisk, &c.MarketDemand, &states)
	if err != nil {
		return c, err
	}
	for _, s := range seasons {
		c.Seasons = append(c.Seasons, Season(s))
	}
	for _, s := range soils {
		c.SoilTypes = append(c.SoilTypes, SoilType(s))
	}
	c.MajorStates = []string(states)
	return c, nil
}

func (p *Postgres) CropsForSoil(soil SoilType, season Season) ([]CropProfile, error) {
	rows, err := p.db.Query(`
		SELECT `+pgCropColumns+`
		FROM crop_profiles
		WHERE $1 = ANY(soil_types) AND $2 = ANY(seasons)
		ORDER BY name
	`, string(soil), string(season))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CropProfile
	for rows.Next() {
		c, err := scanPGCrop(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Crop(name string) (CropProfile, error) {
	row := p.db.QueryRow(`SELECT `+pgCropColumns+` FROM crop_profiles WHERE name = $1`, name)
	c, err := scanPGCrop(row.Scan)
	if err == sql.ErrNoRows {
		return CropProfile{}, ErrNotFound
	}
	return c, err
}

func (p *Postgres) Region(state string) (RegionProfile, error) {
	var r RegionProfile
	var crops pq.StringArray
	err := p.db.QueryRow(`
		SELECT state, soil_type, climate, major_crops,
		       irrigation_coverage, average_rainfall
		FROM region_profiles
		WHERE state = $1
	`, state).Scan(&r.State, &r.SoilType, &r.Climate, &crops,
		&r.IrrigationCoverage, &r.AverageRainfall)
	if err == sql.ErrNoRows {
		return RegionProfile{}, ErrNotFound
	}
	if err != nil {
		return RegionProfile{}, err
	}
	r.MajorCrops = []string(crops)
	return r, nil
}

func (p *Postgres) Crops() ([]CropProfile, error) {
	rows, err := p.db.Query(`SELECT ` + pgCropColumns + ` FROM crop_profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CropProfile
	for rows.Next() {
		c, err := scanPGCrop(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
