package coaching

import (
	"context"
	"testing"

	"familycoach/internal/llm"
	"familycoach/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStaticPrompt(t *testing.T) {
	tests := []struct {
		age  models.AgeRange
		want string
	}{
		{models.AgeRange6to8, "What made you feel happy or sad today?"},
		{models.AgeRange9to11, "How are you feeling about your school work right now?"},
		{models.AgeRange12to14, "What's something you're looking forward to this week?"},
		{models.AgeRange15to17, "What's a challenge you're facing that we could talk about?"},
		{models.AgeRange("18-21"), "How are you feeling right now?"},
		{models.AgeRange(""), "How are you feeling right now?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.age), func(t *testing.T) {
			assert.Equal(t, tt.want, StaticPrompt(tt.age))
			assert.Equal(t, tt.want, NewPromptGenerator(nil, nil).Generate(context.Background(), tt.age, nil, 1))
		})
	}
}

func TestPromptGeneratorUsesModel(t *testing.T) {
	var captured llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		captured = req
		return "\n\"What is one small step you could take today toward your science project?\"\n", nil
	})

	got := NewPromptGenerator(gen, nil).Generate(context.Background(), models.AgeRange9to11,
		[]models.Pattern{models.PatternAvoidanceLoop}, 4)

	assert.Equal(t, "What is one small step you could take today toward your science project?", got)
	assert.Equal(t, 0.8, captured.Temperature)
	assert.Contains(t, captured.Prompt, "Child age range: 9-11")
	assert.Contains(t, captured.Prompt, "Recent patterns observed: avoidance_loop")
	assert.Contains(t, captured.Prompt, "Session number: 4")
}

func TestPromptGeneratorFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  llm.Generator
	}{
		{"error", staticGenerator("", llm.ErrUpstreamUnavailable)},
		{"empty", staticGenerator("  \n  ", nil)},
		{"only quotes", staticGenerator(`""`, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPromptGenerator(tt.gen, nil).Generate(context.Background(), models.AgeRange15to17, nil, 1)
			assert.Equal(t, StaticPrompt(models.AgeRange15to17), got)
		})
	}
}

func TestBuildQuestionPromptWithoutPatterns(t *testing.T) {
	p := buildQuestionPrompt("", nil, 0)
	assert.Contains(t, p, "Recent patterns observed: none")
	assert.Contains(t, p, "Child age range: unknown")
}
