// Package coaching turns a child's reflection into coaching feedback and
// picks the next reflection question. Both paths use a text-generation model
// when one is configured and fall back to fixed rules otherwise.
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

const analysisSystemPrompt = "You are an expert child psychologist and coaching assistant. " +
	"You reply with a single JSON object and nothing else."

// Analyzer produces a CoachingAnalysis for a reflection
type Analyzer struct {
	gen llm.Generator
	log *logger.Logger
}

// NewAnalyzer creates an analyzer. A nil generator always uses the keyword rules.
func NewAnalyzer(gen llm.Generator, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Analyzer{gen: gen, log: log.With("component", "analyzer")}
}

// Analyze never fails: model errors and unusable output degrade to
// FallbackAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, childText string, ageRange models.AgeRange, previousPatterns []models.Pattern) models.CoachingAnalysis {
	if a.gen == nil {
		metrics.AnalysisTotal.WithLabelValues(metrics.PathFallback).Inc()
		return FallbackAnalysis(childText)
	}

	raw, err := a.gen.Generate(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Prompt:      buildAnalysisPrompt(childText, ageRange, previousPatterns),
		Temperature: 0.7,
	})
	if err == nil {
		var analysis models.CoachingAnalysis
		analysis, err = DecodeAnalysis(raw)
		if err == nil {
			metrics.AnalysisTotal.WithLabelValues(metrics.PathLLM).Inc()
			return analysis
		}
	}

	if errors.Is(err, llm.ErrDisabled) {
		a.log.Debug("analysis model disabled, using keyword rules")
	} else {
		a.log.Warn("analysis model failed, using keyword rules", "error", err, "text_length", len(childText))
	}
	metrics.AnalysisTotal.WithLabelValues(metrics.PathFallback).Inc()
	return FallbackAnalysis(childText)
}

func buildAnalysisPrompt(childText string, ageRange models.AgeRange, previousPatterns []models.Pattern) string {
	var b strings.Builder

	b.WriteString("Analyze the following child response and provide age-appropriate coaching feedback.\n\n")
	fmt.Fprintf(&b, "Child's response: %q\n\n", childText)

	if ageRange != "" {
		fmt.Fprintf(&b, "The child is approximately %s years old.\n", ageRange)
	}
	if len(previousPatterns) > 0 {
		labels := make([]string, len(previousPatterns))
		for i, p := range previousPatterns {
			labels[i] = string(p)
		}
		fmt.Fprintf(&b, "Previous patterns observed: %s.\n", strings.Join(labels, ", "))
	}

	b.WriteString(`
Respond with JSON in exactly this shape:
{
  "aiResponse": "a supportive reply that validates their feelings and gently guides them toward positive patterns",
  "detectedPattern": "avoidance_loop" | "impulsivity_overrun" | "perfection_paralysis" | null,
  "patternConfidence": number between 0 and 1,
  "offlineActions": ["3-5 specific, achievable things to do away from the screen"],
  "emotionalTone": "positive" | "neutral" | "challenging",
  "engagementLevel": "high" | "medium" | "low"
}

Guidelines:
- Keep language simple and encouraging
- Validate emotions first
- Suggest concrete, achievable actions suited to the child's age
- If there is no clear pattern, set detectedPattern to null
- Always include offline actions, even when no pattern is detected
`)
	return b.String()
}
