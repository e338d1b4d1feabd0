package agri

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// SQLite serves reference data from a single-file database (pure Go
// driver, no cgo). An empty database is seeded from the embedded dataset
// so a fresh deployment works without an import step.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS crop_profiles (
	name TEXT PRIMARY KEY,
	seasons TEXT NOT NULL,
	soil_types TEXT NOT NULL,
	temp_min REAL NOT NULL, temp_max REAL NOT NULL,
	rain_min REAL NOT NULL, rain_max REAL NOT NULL,
	humidity_min REAL NOT NULL, humidity_max REAL NOT NULL,
	yield_per_hectare REAL NOT NULL,
	baseline_price REAL NOT NULL,
	input_cost_per_hectare REAL NOT NULL,
	water_requirement TEXT NOT NULL,
	fertilizer_requirement TEXT NOT NULL,
	pest_risk TEXT NOT NULL,
	market_demand TEXT NOT NULL,
	major_states TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS region_profiles (
	state TEXT PRIMARY KEY,
	soil_type TEXT NOT NULL,
	climate TEXT NOT NULL,
	major_crops TEXT NOT NULL,
	irrigation_coverage INTEGER NOT NULL,
	average_rainfall REAL NOT NULL
);`

// NewSQLite opens (or creates) the reference database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}
	return s, nil
}

func (s *SQLite) seedIfEmpty() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM crop_profiles`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO crop_profiles
		(name, seasons, soil_types, temp_min, temp_max, rain_min, rain_max,
		 humidity_min, humidity_max, yield_per_hectare, baseline_price,
		 input_cost_per_hectare, water_requirement, fertilizer_requirement,
		 pest_risk, market_demand, major_states)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range DefaultCrops() {
		seasons, _ := json.Marshal(c.Seasons)
		soils, _ := json.Marshal(c.SoilTypes)
		states, _ := json.Marshal(c.MajorStates)
		if _, err := stmt.Exec(c.Name, string(seasons), string(soils),
			c.Temperature.Min, c.Temperature.Max, c.Rainfall.Min, c.Rainfall.Max,
			c.Humidity.Min, c.Humidity.Max, c.YieldPerHectare, c.BaselinePrice,
			c.InputCostPerHectare, string(c.WaterRequirement), string(c.FertilizerRequirement),
			string(c.PestRisk), string(c.MarketDemand), string(states)); err != nil {
			return err
		}
	}

	rstmt, err := tx.Prepare(`INSERT INTO region_profiles
		(state, soil_type, climate, major_crops, irrigation_coverage, average_rainfall)
		VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer rstmt.Close()

	for _, r := range DefaultRegions() {
		crops, _ := json.Marshal(r.MajorCrops)
		if _, err := rstmt.Exec(r.State, string(r.SoilType), r.Climate,
			string(crops), r.IrrigationCoverage, r.AverageRainfall); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) scanCrop(scan func(dest ...any) error) (CropProfile, error) {
	var c CropProfile
	var seasons, soils, states string
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
	if err := json.Unmarshal([]byte(seasons), &c.Seasons); err != nil {
		return c, fmt.Errorf("malformed seasons for %s: %w", c.Name, err)
	}
	if err := json.Unmarshal([]byte(soils), &c.SoilTypes); err != nil {
		return c, fmt.Errorf("malformed soil types for %s: %w", c.Name, err)
	}
	if err := json.Unmarshal([]byte(states), &c.MajorStates); err != nil {
		return c, fmt.Errorf("malformed states for %s: %w", c.Name, err)
	}
	return c, nil
}

const sqliteCropColumns = `name, seasons, soil_types, temp_min, temp_max,
	rain_min, rain_max, humidity_min, humidity_max, yield_per_hectare,
	baseline_price, input_cost_per_hectare, water_requirement,
	fertilizer_requirement, pest_risk, market_demand, major_states`

func (s *SQLite) CropsForSoil(soil SoilType, season Season) ([]CropProfile, error) {
	// Membership lives in JSON columns, so filtering happens here rather
	// than in SQL. The table is small; a scan is fine.
	all, err := s.Crops()
	if err != nil {
		return nil, err
	}
	var out []CropProfile
	for _, c := range all {
		if c.SuitsSoil(soil) && c.InSeason(season) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *SQLite) Crop(name string) (CropProfile, error) {
	row := s.db.QueryRow(`SELECT `+sqliteCropColumns+` FROM crop_profiles WHERE name = ?`, name)
	c, err := s.scanCrop(row.Scan)
	if err == sql.ErrNoRows {
		return CropProfile{}, ErrNotFound
	}
	return c, err
}

func (s *SQLite) Region(state string) (RegionProfile, error) {
	var r RegionProfile
	var crops string
	err := s.db.QueryRow(`SELECT state, soil_type, climate, major_crops,
		irrigation_coverage, average_rainfall FROM region_profiles WHERE state = ?`, state).
		Scan(&r.State, &r.SoilType, &r.Climate, &crops, &r.IrrigationCoverage, &r.AverageRainfall)
	if err == sql.ErrNoRows {
		return RegionProfile{}, ErrNotFound
	}
	if err != nil {
		return RegionProfile{}, err
	}
	if err := json.Unmarshal([]byte(crops), &r.MajorCrops); err != nil {
		return RegionProfile{}, fmt.Errorf("malformed major crops for %s: %w", state, err)
	}
	return r, nil
}

func (s *SQLite) Crops() ([]CropProfile, error) {
	rows, err := s.db.Query(`SELECT ` + sqliteCropColumns + ` FROM crop_profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CropProfile
	for rows.Next() {
		c, err := s.scanCrop(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
