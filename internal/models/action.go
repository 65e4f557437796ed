package models

import "time"

// OfflineAction is a follow-up step suggested for the child to do away from
// the screen
type OfflineAction struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"sessionId"`
	ActionText  string     `json:"actionText"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
