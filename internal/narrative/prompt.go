package narrative

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the structured prompt sent to the generative
// backend.
func BuildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("You are an expert agricultural advisor for Indian farmers. ")
	b.WriteString("Based on the following information, provide detailed crop recommendations and farming advice.\n\n")

	b.WriteString("FARMER INFORMATION:\n")
	fmt.Fprintf(&b, "- Location: %s, %s\n", in.State, in.District)
	fmt.Fprintf(&b, "- Land Size: %.2f hectares\n", in.LandSize)
	fmt.Fprintf(&b, "- Budget: ₹%.0f\n", in.Budget)
	fmt.Fprintf(&b, "- Risk Tolerance: %s\n", in.RiskTolerance)
	fmt.Fprintf(&b, "- Soil Type: %s\n", in.Soil)

	b.WriteString("\nWEATHER CONDITIONS:\n")
	fmt.Fprintf(&b, "- Current Temperature: %.1f°C\n", in.CurrentTemp)
	fmt.Fprintf(&b, "- Humidity: %.0f%%\n", in.Humidity)
	fmt.Fprintf(&b, "- Rainfall (7 days): %.0fmm\n", in.TotalRainfall)
	fmt.Fprintf(&b, "- Weather Suitability: %s\n", in.WeatherRating)

	b.WriteString("\nCOMMODITY PRICES:\n")
	for _, p := range in.Prices {
		fmt.Fprintf(&b, "- %s: ₹%.0f/quintal (Trend: %s)\n", p.Name, p.Price, p.Trend)
	}

	b.WriteString("\nENGINE RANKING (for reference):\n")
	for i, c := range in.Crops {
		fmt.Fprintf(&b, "%d. %s - confidence %.0f%%, expected profit ₹%.0f\n",
			i+1, c.Name, c.Confidence*100, c.Profit)
	}

	b.WriteString(`
Please provide:
1. Top crop recommendations with reasons
2. Expected yield and profit estimates
3. Planting schedule and timing
4. Required inputs (seeds, fertilizers, irrigation)
5. Risk factors and mitigation strategies
6. Market outlook and selling advice

Format your response in a clear, actionable manner suitable for farmers.
`)

	return b.String()
}
