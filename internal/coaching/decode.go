package coaching

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"familycoach/internal/models"
)

const (
	maxOfflineActions = 5
	defaultAIResponse = "Thank you for sharing. I'm here to help you work through your feelings."
)

// ErrMalformedAnalysis is returned when model output holds no JSON object
var ErrMalformedAnalysis = errors.New("malformed analysis")

// DecodeAnalysis validates raw model output into a CoachingAnalysis. Every
// field is checked and clamped; only output that is not a JSON object at all
// is an error.
func DecodeAnalysis(raw string) (models.CoachingAnalysis, error) {
	body, ok := extractJSONObject(raw)
	if !ok {
		return models.CoachingAnalysis{}, fmt.Errorf("%w: no JSON object found", ErrMalformedAnalysis)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return models.CoachingAnalysis{}, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}

	analysis := models.CoachingAnalysis{
		AIResponse:        defaultAIResponse,
		PatternConfidence: clampConfidence(payload["patternConfidence"]),
		OfflineActions:    decodeActions(payload["offlineActions"]),
		EmotionalTone:     models.ToneNeutral,
		EngagementLevel:   models.EngagementMedium,
	}

	if s, ok := payload["aiResponse"].(string); ok && strings.TrimSpace(s) != "" {
		analysis.AIResponse = strings.TrimSpace(s)
	}

	if s, ok := payload["detectedPattern"].(string); ok && strings.TrimSpace(s) != "" {
		p := models.Pattern(strings.TrimSpace(s))
		analysis.DetectedPattern = &p
	}

	switch tone := models.EmotionalTone(asString(payload["emotionalTone"])); tone {
	case models.TonePositive, models.ToneNeutral, models.ToneChallenging:
		analysis.EmotionalTone = tone
	}

	switch level := models.EngagementLevel(asString(payload["engagementLevel"])); level {
	case models.EngagementHigh, models.EngagementMedium, models.EngagementLow:
		analysis.EngagementLevel = level
	}

	return analysis, nil
}

// extractJSONObject strips markdown fences and returns the outermost {...}
func extractJSONObject(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func clampConfidence(v any) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

func decodeActions(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	actions := make([]string, 0, maxOfflineActions)
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		actions = append(actions, strings.TrimSpace(s))
		if len(actions) == maxOfflineActions {
			break
		}
	}
	return actions
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}
