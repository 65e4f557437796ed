package analytics

import "familycoach/internal/models"

var baseSuggestions = map[models.Pattern][]string{
	models.PatternAvoidanceLoop: {
		"Try breaking tasks into 2-minute micro-steps",
		"Create a visual progress tracker for motivation",
	},
	models.PatternImpulsivityOverrun: {
		`Practice the "pause and breathe" technique before acting`,
		"Use a 3-question checklist before making decisions",
	},
	models.PatternPerfectionParalysis: {
		`Embrace "good enough" standards for routine tasks`,
		"Set time limits to prevent overthinking",
	},
}

var increasingSuggestions = map[models.Pattern]string{
	models.PatternAvoidanceLoop:       "Consider scheduling regular check-ins to maintain momentum",
	models.PatternImpulsivityOverrun:  "Implement structured decision-making frameworks",
	models.PatternPerfectionParalysis: "Focus on progress over perfection in daily activities",
}

// frequentThreshold is the event count above which professional support is suggested
const frequentThreshold = 5

// Suggestions returns parent-facing advice for a pattern's insight
func Suggestions(p models.Pattern, frequency int, trend models.Trend) []string {
	out := append([]string{}, baseSuggestions[p]...)
	if trend == models.TrendIncreasing {
		if s, ok := increasingSuggestions[p]; ok {
			out = append(out, s)
		}
	}
	if frequency > frequentThreshold {
		out = append(out, "Consider discussing these patterns with a professional")
	}
	return out
}
