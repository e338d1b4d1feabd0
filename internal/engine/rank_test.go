package engine

import "testing"

func names(cs []CropScore) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Crop
	}
	return out
}

func TestRankOrderAndTieBreaks(t *testing.T) {
	p := Default()
	scored := []CropScore{
		{Crop: "Onion", Confidence: 0.6, ExpectedProfit: 1000},
		{Crop: "Wheat", Confidence: 0.7, ExpectedProfit: 500},
		// Same confidence as Onion, higher profit: profit breaks the tie.
		{Crop: "Maize", Confidence: 0.6, ExpectedProfit: 2000},
		// Same confidence and profit as Onion: name breaks the tie.
		{Crop: "Cotton", Confidence: 0.6, ExpectedProfit: 1000},
	}

	rec, rest := p.rank(scored)
	if len(rest) != 0 {
		t.Fatalf("unexpected rest: %v", names(rest))
	}
	want := []string{"Wheat", "Maize", "Cotton", "Onion"}
	got := names(rec)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankTopNOverflow(t *testing.T) {
	p := Default()
	p.TopN = 2
	scored := []CropScore{
		{Crop: "A", Confidence: 0.9},
		{Crop: "B", Confidence: 0.8},
		{Crop: "C", Confidence: 0.7},
	}
	rec, rest := p.rank(scored)
	if len(rec) != 2 || len(rest) != 1 {
		t.Fatalf("split = %d/%d, want 2/1", len(rec), len(rest))
	}
	if rest[0].Crop != "C" {
		t.Errorf("overflow = %s, want C", rest[0].Crop)
	}
}

func TestRankSoftConfidenceFloor(t *testing.T) {
	p := Default() // MinConfidence 0.3

	// All candidates below the floor: the floor yields, nothing is cut.
	weak := []CropScore{
		{Crop: "A", Confidence: 0.2},
		{Crop: "B", Confidence: 0.1},
	}
	rec, _ := p.rank(weak)
	if len(rec) != 2 {
		t.Fatalf("all-weak field: got %d recommendations, want 2", len(rec))
	}

	// One candidate clears the floor: the rest are cut below it.
	mixed := []CropScore{
		{Crop: "A", Confidence: 0.5},
		{Crop: "B", Confidence: 0.1},
	}
	rec, rest := p.rank(mixed)
	if len(rec) != 1 || rec[0].Crop != "A" {
		t.Fatalf("mixed field: recommendations = %v, want [A]", names(rec))
	}
	if len(rest) != 1 || rest[0].ExclusionReason != "below minimum confidence" {
		t.Fatalf("mixed field: rest = %+v, want B below minimum confidence", rest)
	}
}

func TestRankExcludedNeverRecommended(t *testing.T) {
	p := Default()
	scored := []CropScore{
		{Crop: "A", Confidence: 0.9, Excluded: true, ExclusionReason: "High risk exceeds Low tolerance"},
		{Crop: "B", Confidence: 0.4},
	}
	rec, rest := p.rank(scored)
	if len(rec) != 1 || rec[0].Crop != "B" {
		t.Fatalf("recommendations = %v, want [B]", names(rec))
	}
	if len(rest) != 1 || rest[0].Crop != "A" {
		t.Fatalf("rest = %v, want [A]", names(rest))
	}
}
