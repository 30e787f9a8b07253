package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fallback pair returned whenever the generative-text provider fails or its
// reply cannot be parsed. The exact strings are part of the API contract.
const (
	FallbackExplanation    = "Limited data available for specific AI analysis. Local risk assessment recommended."
	FallbackRecommendation = "Manual Review Required"
)

// FallbackInsight returns the documented degraded-mode insight.
func FallbackInsight() Insight {
	return Insight{
		Explanation:    FallbackExplanation,
		Recommendation: FallbackRecommendation,
	}
}

// BuildInsightPrompt renders the structured prompt sent to the
// generative-text provider. The provider is instructed to reply with a JSON
// object carrying exactly the two keys ParseInsightReply expects.
func BuildInsightPrompt(address string, assetValue float64, loanTermYears int, score float64, c RiskComponents) string {
	var b strings.Builder
	b.WriteString("Act as a Climate Risk Analyst and Financial Advisor.\n")
	b.WriteString("Analyze this property:\n")
	fmt.Fprintf(&b, "- Address: %s\n", address)
	fmt.Fprintf(&b, "- Asset Value: $%.2f\n", assetValue)
	fmt.Fprintf(&b, "- Loan Term: %d years\n", loanTermYears)
	fmt.Fprintf(&b, "- Overall Climate Score: %.2f/100\n", score)
	fmt.Fprintf(&b, "- Risk Factors: Flood(%.2f/10), Heat(%.2f/10), Storm(%.2f/10), Sea Level(%.2f/10)\n",
		c.Flood, c.Heat, c.Storm, c.SeaLevel)
	b.WriteString("\nProvide a concise response in two parts:\n")
	b.WriteString("1. \"explanation\": A detailed but brief climate risk analysis for this location.\n")
	b.WriteString("2. \"recommendation\": A bank-level loan recommendation (Approved, Approved with Adjustments, or Risky).\n")
	b.WriteString("Format the response as a JSON string with keys 'explanation' and 'recommendation'.")
	return b.String()
}

// ParseInsightReply extracts the structured insight from a raw model reply.
// Replies are frequently wrapped in Markdown code fences, which are stripped
// before JSON decoding. Both keys must be present and non-empty.
func ParseInsightReply(raw string) (Insight, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var insight Insight
	if err := json.Unmarshal([]byte(cleaned), &insight); err != nil {
		return Insight{}, fmt.Errorf("parse insight reply: %w", err)
	}
	if insight.Explanation == "" || insight.Recommendation == "" {
		return Insight{}, fmt.Errorf("parse insight reply: missing explanation or recommendation")
	}
	return insight, nil
}
