package models

// EmotionalTone classifies the overall feeling of a reflection
type EmotionalTone string

const (
	TonePositive    EmotionalTone = "positive"
	ToneNeutral     EmotionalTone = "neutral"
	ToneChallenging EmotionalTone = "challenging"
)

// EngagementLevel classifies how engaged the child seemed
type EngagementLevel string

const (
	EngagementHigh   EngagementLevel = "high"
	EngagementMedium EngagementLevel = "medium"
	EngagementLow    EngagementLevel = "low"
)

// CoachingAnalysis is the coach's reading of one reflection. It is never
// stored; a PatternEvent and OfflineActions are derived from it.
type CoachingAnalysis struct {
	AIResponse        string          `json:"aiResponse"`
	DetectedPattern   *Pattern        `json:"detectedPattern"`
	PatternConfidence float64         `json:"patternConfidence"`
	OfflineActions    []string        `json:"offlineActions"`
	EmotionalTone     EmotionalTone   `json:"emotionalTone"`
	EngagementLevel   EngagementLevel `json:"engagementLevel"`
}
