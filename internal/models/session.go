package models

import "time"

// SessionStatus is the lifecycle state of a coaching session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// IsTerminal reports whether no further transitions are allowed
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// CoachingSession is one guided conversation with a child
type CoachingSession struct {
	ID        string        `json:"id"`
	FamilyID  string        `json:"familyId"`
	ChildID   string        `json:"childId"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
	Summary   string        `json:"summary,omitempty"`
}
