package agri

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "reference.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSelfSeeds(t *testing.T) {
	s := openTestSQLite(t)

	all, err := s.Crops()
	if err != nil {
		t.Fatalf("Crops: %v", err)
	}
	if len(all) != len(DefaultCrops()) {
		t.Fatalf("got %d crops, want %d", len(all), len(DefaultCrops()))
	}
}

func TestSQLiteMatchesMemory(t *testing.T) {
	s := openTestSQLite(t)
	m := NewMemory()

	for _, name := range []string{"Rice", "Wheat", "Sugarcane"} {
		fromSQL, err := s.Crop(name)
		if err != nil {
			t.Fatalf("sqlite Crop(%s): %v", name, err)
		}
		fromMem, err := m.Crop(name)
		if err != nil {
			t.Fatalf("memory Crop(%s): %v", name, err)
		}
		if !reflect.DeepEqual(fromSQL, fromMem) {
			t.Errorf("%s differs across backends:\nsqlite: %+v\nmemory: %+v", name, fromSQL, fromMem)
		}
	}

	sqlCrops, err := s.CropsForSoil(SoilBlack, SeasonRabi)
	if err != nil {
		t.Fatalf("sqlite CropsForSoil: %v", err)
	}
	memCrops, err := m.CropsForSoil(SoilBlack, SeasonRabi)
	if err != nil {
		t.Fatalf("memory CropsForSoil: %v", err)
	}
	if !reflect.DeepEqual(sqlCrops, memCrops) {
		t.Errorf("CropsForSoil differs across backends")
	}
}

func TestSQLiteRegion(t *testing.T) {
	s := openTestSQLite(t)

	r, err := s.Region("Punjab")
	if err != nil {
		t.Fatalf("Region(Punjab): %v", err)
	}
	if r.SoilType != SoilAlluvial || r.IrrigationCoverage != 95 {
		t.Errorf("Punjab profile = %+v", r)
	}

	if _, err := s.Region("Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Region(Atlantis) err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCropNotFound(t *testing.T) {
	s := openTestSQLite(t)
	if _, err := s.Crop("Durian"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Crop(Durian) err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSeedsOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.db")

	s1, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	all, err := s2.Crops()
	if err != nil {
		t.Fatalf("Crops: %v", err)
	}
	if len(all) != len(DefaultCrops()) {
		t.Fatalf("reopened database has %d crops, want %d (no duplicate seeding)", len(all), len(DefaultCrops()))
	}
}
