package coaching

import (
	"strings"

	"familycoach/internal/models"
)

type keywordRule struct {
	keywords   []string
	pattern    models.Pattern
	confidence float64
	tone       models.EmotionalTone
	engagement models.EngagementLevel
	response   string
	actions    []string
}

// keywordRules are checked in order; the first rule with a matching keyword wins.
var keywordRules = []keywordRule{
	{
		keywords:   []string{"procrastin", "later", "tomorrow"},
		pattern:    models.PatternAvoidanceLoop,
		confidence: 0.8,
		tone:       models.ToneNeutral,
		engagement: models.EngagementMedium,
		response:   "I hear you're feeling hesitant about starting something. That's completely normal! Remember, taking the first small step can make a big difference.",
		actions: []string{
			"Write down one small task you can do in the next 5 minutes",
			"Set a timer for 2 minutes and start working on it",
			"Tell someone you're going to do this task today",
		},
	},
	{
		keywords:   []string{"rush", "quick", "impulse", "regret"},
		pattern:    models.PatternImpulsivityOverrun,
		confidence: 0.7,
		tone:       models.ToneChallenging,
		engagement: models.EngagementHigh,
		response:   "It sounds like you acted quickly and now you're thinking about it. That's great awareness! Next time, try pausing for a moment to consider your options.",
		actions: []string{
			"Practice deep breathing for 30 seconds before making a decision",
			"Write down pros and cons of your choices",
			"Ask yourself: 'How will I feel about this in an hour?'",
		},
	},
	{
		keywords:   []string{"perfect", "not good enough", "wait", "right"},
		pattern:    models.PatternPerfectionParalysis,
		confidence: 0.9,
		tone:       models.ToneNeutral,
		engagement: models.EngagementMedium,
		response:   "You're being really thoughtful about getting things just right. That's a strength! But sometimes 'good enough' is perfect for starting.",
		actions: []string{
			"Set a timer for 10 minutes and work on your task until it goes off",
			"Tell yourself: 'I can always improve it later'",
			"Start with a rough draft or sketch",
		},
	},
}

const noPatternResponse = "Thanks for sharing how you're feeling. It's great that you're taking time to reflect on this. Keep being aware of your thoughts and actions!"

var noPatternActions = []string{
	"Take a moment to notice what you're feeling right now",
	"Write down one thing you're grateful for today",
	"Do something kind for yourself or someone else",
}

// FallbackAnalysis classifies text with fixed keyword rules. It is
// deterministic and needs no network.
func FallbackAnalysis(childText string) models.CoachingAnalysis {
	lower := strings.ToLower(childText)

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				pattern := rule.pattern
				return models.CoachingAnalysis{
					AIResponse:        rule.response,
					DetectedPattern:   &pattern,
					PatternConfidence: rule.confidence,
					OfflineActions:    append([]string(nil), rule.actions...),
					EmotionalTone:     rule.tone,
					EngagementLevel:   rule.engagement,
				}
			}
		}
	}

	return models.CoachingAnalysis{
		AIResponse:        noPatternResponse,
		DetectedPattern:   nil,
		PatternConfidence: 0,
		OfflineActions:    append([]string(nil), noPatternActions...),
		EmotionalTone:     models.TonePositive,
		EngagementLevel:   models.EngagementLow,
	}
}
