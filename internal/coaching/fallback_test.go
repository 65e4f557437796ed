package coaching

import (
	"testing"

	"familycoach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackAnalysis(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		pattern    *models.Pattern
		confidence float64
		tone       models.EmotionalTone
		engagement models.EngagementLevel
	}{
		{
			name:       "tomorrow is avoidance",
			text:       "I'll do it tomorrow, I promise",
			pattern:    patternPtr(models.PatternAvoidanceLoop),
			confidence: 0.8,
			tone:       models.ToneNeutral,
			engagement: models.EngagementMedium,
		},
		{
			name:       "procrastinating upper case",
			text:       "I keep PROCRASTINATING on my project",
			pattern:    patternPtr(models.PatternAvoidanceLoop),
			confidence: 0.8,
			tone:       models.ToneNeutral,
			engagement: models.EngagementMedium,
		},
		{
			name:       "regret is impulsivity",
			text:       "I said something mean and I regret it",
			pattern:    patternPtr(models.PatternImpulsivityOverrun),
			confidence: 0.7,
			tone:       models.ToneChallenging,
			engagement: models.EngagementHigh,
		},
		{
			name:       "perfect is perfection paralysis",
			text:       "My drawing has to be perfect",
			pattern:    patternPtr(models.PatternPerfectionParalysis),
			confidence: 0.9,
			tone:       models.ToneNeutral,
			engagement: models.EngagementMedium,
		},
		{
			name:       "not good enough",
			text:       "My essay is not good enough",
			pattern:    patternPtr(models.PatternPerfectionParalysis),
			confidence: 0.9,
			tone:       models.ToneNeutral,
			engagement: models.EngagementMedium,
		},
		{
			name:       "first rule wins over later rules",
			text:       "I want it perfect so I'll start tomorrow",
			pattern:    patternPtr(models.PatternAvoidanceLoop),
			confidence: 0.8,
			tone:       models.ToneNeutral,
			engagement: models.EngagementMedium,
		},
		{
			name:       "impulsivity beats perfection",
			text:       "I rushed it and it wasn't right",
			pattern:    patternPtr(models.PatternImpulsivityOverrun),
			confidence: 0.7,
			tone:       models.ToneChallenging,
			engagement: models.EngagementHigh,
		},
		{
			name:       "nothing matches",
			text:       "I played football with my friends",
			pattern:    nil,
			confidence: 0,
			tone:       models.TonePositive,
			engagement: models.EngagementLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackAnalysis(tt.text)

			assert.Equal(t, tt.pattern, got.DetectedPattern)
			assert.Equal(t, tt.confidence, got.PatternConfidence)
			assert.Equal(t, tt.tone, got.EmotionalTone)
			assert.Equal(t, tt.engagement, got.EngagementLevel)
			assert.Len(t, got.OfflineActions, 3)
			assert.NotEmpty(t, got.AIResponse)
		})
	}
}

func TestFallbackAnalysisIsDeterministic(t *testing.T) {
	text := "I'll wait until later to start"
	first := FallbackAnalysis(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FallbackAnalysis(text))
	}
}

func TestFallbackAnalysisReturnsCopies(t *testing.T) {
	a := FallbackAnalysis("tomorrow")
	a.OfflineActions[0] = "changed"

	b := FallbackAnalysis("tomorrow")
	require.Len(t, b.OfflineActions, 3)
	assert.NotEqual(t, "changed", b.OfflineActions[0])
}

func patternPtr(p models.Pattern) *models.Pattern {
	return &p
}
