// Package narrative produces the human-readable summary attached to a
// recommendation result. A generative backend is tried first under a
// bounded wait; any failure falls back to a deterministic template built
// from the same inputs. The chosen path is reported alongside the text.
package narrative

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Source records which path produced the narrative.
type Source string

const (
	// SourceModel means the generative backend produced the text.
	SourceModel Source = "model"
	// SourceTemplate means the deterministic fallback produced the text.
	SourceTemplate Source = "template"
)

// Generator is the generative-text collaborator.
type Generator interface {
	// Available reports whether the backend can currently serve requests.
	Available(ctx context.Context) bool
	// Generate returns prose for the prompt, or an error on
	// timeout/unavailability/malformed output.
	Generate(ctx context.Context, prompt string) (string, error)
}

// CropLine is one ranked crop as seen by the narrative layer.
type CropLine struct {
	Name       string
	Confidence float64
	Profit     float64
	Reasons    []string
}

// AdvisoryLine is one advisory as seen by the narrative layer.
type AdvisoryLine struct {
	Title       string
	Description string
	Urgency     string // Low/Medium/High
}

// PriceLine is one commodity quote as seen by the narrative layer.
type PriceLine struct {
	Name  string
	Price float64
	Trend string
}

// Input carries everything the narrative needs, already flattened so
// this package stays independent of the scoring types.
type Input struct {
	State         string
	District      string
	Soil          string
	LandSize      float64
	Budget        float64
	RiskTolerance string
	WeatherRating string
	CurrentTemp   float64
	Humidity      float64
	TotalRainfall float64
	Prices        []PriceLine
	Crops         []CropLine
	Advisories    []AdvisoryLine
}

// DefaultTimeout bounds the generative call when the caller's context
// carries no earlier deadline.
const DefaultTimeout = 30 * time.Second

// Augmenter narrates results, preferring the generative backend.
type Augmenter struct {
	gen     Generator
	timeout time.Duration
}

// NewAugmenter wraps gen. A nil gen always narrates via the template.
// A non-positive timeout uses DefaultTimeout.
func NewAugmenter(gen Generator, timeout time.Duration) *Augmenter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Augmenter{gen: gen, timeout: timeout}
}

// Narrate returns a non-empty narrative and the path that produced it.
// It never returns an error: every failure resolves to the template.
func (a *Augmenter) Narrate(ctx context.Context, in Input) (string, Source) {
	if a == nil || a.gen == nil || !a.gen.Available(ctx) {
		return Template(in), SourceTemplate
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, BuildPrompt(in))
	if err != nil {
		log.Printf("narrative backend failed, using template: %v", err)
		return Template(in), SourceTemplate
	}
	if strings.TrimSpace(text) == "" {
		return Template(in), SourceTemplate
	}
	return text, SourceModel
}

// Template builds the deterministic fallback narrative. Identical inputs
// always produce identical text.
func Template(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "AGRICULTURAL RECOMMENDATIONS FOR %s\n\n", strings.ToUpper(in.State))
	fmt.Fprintf(&b, "Weather outlook: %s. Expected rainfall over the next 7 days: %.0f mm.\n\n",
		in.WeatherRating, in.TotalRainfall)

	if len(in.Crops) == 0 {
		b.WriteString("No crop cleared the soil and risk gates for this query. ")
		b.WriteString("Review the advisories below and consider adjusting budget or risk tolerance.\n")
	} else {
		b.WriteString("TOP CROP RECOMMENDATIONS:\n")
		for i, c := range in.Crops {
			fmt.Fprintf(&b, "%d. %s (confidence %.0f%%, expected profit ₹%.0f)\n",
				i+1, strings.ToUpper(c.Name), c.Confidence*100, c.Profit)
			for _, r := range c.Reasons {
				fmt.Fprintf(&b, "   - %s\n", r)
			}
		}
	}

	if adv := mostUrgent(in.Advisories); adv != nil {
		fmt.Fprintf(&b, "\nMOST URGENT ADVISORY: %s\n%s\n", adv.Title, adv.Description)
	}

	b.WriteString("\nRISK MANAGEMENT:\n")
	b.WriteString("- Diversify crops to reduce risk\n")
	b.WriteString("- Monitor weather forecasts and mandi prices regularly\n")
	b.WriteString("- Follow integrated pest management practices\n")

	return b.String()
}

var urgencyOrder = map[string]int{"High": 2, "Medium": 1, "Low": 0}

func mostUrgent(advs []AdvisoryLine) *AdvisoryLine {
	var best *AdvisoryLine
	for i := range advs {
		if best == nil || urgencyOrder[advs[i].Urgency] > urgencyOrder[best.Urgency] {
			best = &advs[i]
		}
	}
	return best
}
