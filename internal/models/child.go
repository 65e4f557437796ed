package models

import "time"

// AgeRange buckets a child's age for prompt and analysis tuning
type AgeRange string

const (
	AgeRange6to8   AgeRange = "6-8"
	AgeRange9to11  AgeRange = "9-11"
	AgeRange12to14 AgeRange = "12-14"
	AgeRange15to17 AgeRange = "15-17"
)

// Valid reports whether r is one of the known ranges
func (r AgeRange) Valid() bool {
	switch r {
	case AgeRange6to8, AgeRange9to11, AgeRange12to14, AgeRange15to17:
		return true
	}
	return false
}

// ChildProfile is a child in a family. UserID is set when the child has its
// own login.
type ChildProfile struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"familyId"`
	UserID      string    `json:"userId,omitempty"`
	DisplayName string    `json:"displayName"`
	AgeRange    AgeRange  `json:"ageRange,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
