package coaching

import (
	"context"
	"errors"
	"testing"

	"familycoach/internal/llm"
	"familycoach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticGenerator(out string, err error) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return out, err
	})
}

func TestAnalyzeWithoutGeneratorUsesKeywordRules(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	got := a.Analyze(context.Background(), "I'll do it tomorrow, I promise", "", nil)

	require.NotNil(t, got.DetectedPattern)
	assert.Equal(t, models.PatternAvoidanceLoop, *got.DetectedPattern)
	assert.Equal(t, 0.8, got.PatternConfidence)
	assert.Len(t, got.OfflineActions, 3)
}

func TestAnalyzeUsesModelOutput(t *testing.T) {
	var captured llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		captured = req
		return `{"aiResponse":"Nice work","detectedPattern":"impulsivity_overrun","patternConfidence":0.5,"offlineActions":["Pause"],"emotionalTone":"positive","engagementLevel":"low"}`, nil
	})
	a := NewAnalyzer(gen, nil)

	got := a.Analyze(context.Background(), "I finished my homework", models.AgeRange12to14,
		[]models.Pattern{models.PatternAvoidanceLoop, models.PatternPerfectionParalysis})

	assert.Equal(t, "Nice work", got.AIResponse)
	require.NotNil(t, got.DetectedPattern)
	assert.Equal(t, models.PatternImpulsivityOverrun, *got.DetectedPattern)
	assert.Equal(t, []string{"Pause"}, got.OfflineActions)

	assert.Equal(t, 0.7, captured.Temperature)
	assert.Contains(t, captured.Prompt, "I finished my homework")
	assert.Contains(t, captured.Prompt, "approximately 12-14 years old")
	assert.Contains(t, captured.Prompt, "Previous patterns observed: avoidance_loop, perfection_paralysis.")
}

func TestAnalyzeFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  llm.Generator
	}{
		{"upstream error", staticGenerator("", llm.ErrUpstreamUnavailable)},
		{"disabled", staticGenerator("", llm.ErrDisabled)},
		{"arbitrary error", staticGenerator("", errors.New("connection reset"))},
		{"prose output", staticGenerator("The child seems to be procrastinating.", nil)},
		{"broken json", staticGenerator(`{"aiResponse": "half`, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAnalyzer(tt.gen, nil).Analyze(context.Background(), "I rushed my test", "", nil)
			assert.Equal(t, FallbackAnalysis("I rushed my test"), got)
		})
	}
}

func TestAnalyzeOutputAlwaysInBounds(t *testing.T) {
	outputs := []string{
		`{"patternConfidence": 42, "offlineActions": ["1","2","3","4","5","6","7","8"], "emotionalTone": "angry", "engagementLevel": "extreme"}`,
		`{"patternConfidence": -1, "offlineActions": {"a": 1}}`,
		`{}`,
		`garbage`,
	}
	texts := []string{"", "tomorrow", "regret", "perfect", "hello there", "🙂🙂🙂"}

	for _, out := range outputs {
		for _, text := range texts {
			a := NewAnalyzer(staticGenerator(out, nil), nil)
			got := a.Analyze(context.Background(), text, models.AgeRange6to8, nil)

			assert.GreaterOrEqual(t, got.PatternConfidence, 0.0)
			assert.LessOrEqual(t, got.PatternConfidence, 1.0)
			assert.LessOrEqual(t, len(got.OfflineActions), 5)
			assert.Contains(t, []models.EmotionalTone{models.TonePositive, models.ToneNeutral, models.ToneChallenging}, got.EmotionalTone)
			assert.Contains(t, []models.EngagementLevel{models.EngagementHigh, models.EngagementMedium, models.EngagementLow}, got.EngagementLevel)
			assert.NotEmpty(t, got.AIResponse)
		}
	}
}
