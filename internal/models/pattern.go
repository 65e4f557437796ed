package models

import "time"

// Pattern is a behavioral pattern the coach can detect
type Pattern string

const (
	PatternAvoidanceLoop       Pattern = "avoidance_loop"
	PatternImpulsivityOverrun  Pattern = "impulsivity_overrun"
	PatternPerfectionParalysis Pattern = "perfection_paralysis"
)

// AllPatterns lists every pattern in enumeration order
var AllPatterns = []Pattern{
	PatternAvoidanceLoop,
	PatternImpulsivityOverrun,
	PatternPerfectionParalysis,
}

// Valid reports whether p is a known pattern
func (p Pattern) Valid() bool {
	for _, known := range AllPatterns {
		if p == known {
			return true
		}
	}
	return false
}

// PatternEvent records one detection of a pattern during a session.
// Confidence is on a 1-5 scale.
type PatternEvent struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"familyId"`
	ChildID    string    `json:"childId"`
	SessionID  string    `json:"sessionId"`
	Pattern    Pattern   `json:"pattern"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}
