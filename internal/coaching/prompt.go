package coaching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"familycoach/internal/llm"
	"familycoach/internal/logger"
	"familycoach/internal/metrics"
	"familycoach/internal/models"
)

const defaultPrompt = "How are you feeling right now?"

var staticPrompts = map[models.AgeRange]string{
	models.AgeRange6to8:   "What made you feel happy or sad today?",
	models.AgeRange9to11:  "How are you feeling about your school work right now?",
	models.AgeRange12to14: "What's something you're looking forward to this week?",
	models.AgeRange15to17: "What's a challenge you're facing that we could talk about?",
}

// StaticPrompt returns the fixed question for an age range
func StaticPrompt(ageRange models.AgeRange) string {
	if p, ok := staticPrompts[ageRange]; ok {
		return p
	}
	return defaultPrompt
}

// PromptGenerator picks the reflection question that opens a session
type PromptGenerator struct {
	gen llm.Generator
	log *logger.Logger
}

// NewPromptGenerator creates a prompt generator. A nil generator always uses
// the static table.
func NewPromptGenerator(gen llm.Generator, log *logger.Logger) *PromptGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	return &PromptGenerator{gen: gen, log: log.With("component", "prompt_generator")}
}

// Generate never fails; an empty or failed model reply yields StaticPrompt.
func (g *PromptGenerator) Generate(ctx context.Context, ageRange models.AgeRange, recentPatterns []models.Pattern, sessionCount int) string {
	if g.gen == nil {
		metrics.PromptTotal.WithLabelValues(metrics.PathFallback).Inc()
		return StaticPrompt(ageRange)
	}

	raw, err := g.gen.Generate(ctx, llm.Request{
		Prompt:      buildQuestionPrompt(ageRange, recentPatterns, sessionCount),
		Temperature: 0.8,
		MaxTokens:   120,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			g.log.Warn("prompt model failed, using static prompt", "error", err)
		}
		metrics.PromptTotal.WithLabelValues(metrics.PathFallback).Inc()
		return StaticPrompt(ageRange)
	}

	question := cleanQuestion(raw)
	if question == "" {
		metrics.PromptTotal.WithLabelValues(metrics.PathFallback).Inc()
		return StaticPrompt(ageRange)
	}

	metrics.PromptTotal.WithLabelValues(metrics.PathLLM).Inc()
	return question
}

func buildQuestionPrompt(ageRange models.AgeRange, recentPatterns []models.Pattern, sessionCount int) string {
	age := string(ageRange)
	if age == "" {
		age = "unknown"
	}
	patterns := "none"
	if len(recentPatterns) > 0 {
		labels := make([]string, len(recentPatterns))
		for i, p := range recentPatterns {
			labels[i] = string(p)
		}
		patterns = strings.Join(labels, ", ")
	}

	return fmt.Sprintf(`Generate a personalized, age-appropriate reflection prompt for a child in a coaching session.

Child age range: %s
Recent patterns observed: %s
Session number: %d

Write a single, engaging question that:
- Is appropriate for their age group
- Builds on the recent patterns if there are any
- Encourages self-reflection
- Uses simple, supportive language
- Is between 10 and 20 words long

Return only the question text, with no quotes or explanation.`, age, patterns, sessionCount)
}

// cleanQuestion keeps the first non-empty line and drops wrapping quotes
func cleanQuestion(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimSpace(strings.Trim(line, "\"'`“”"))
	}
	return ""
}
