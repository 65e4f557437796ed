package models

import "time"

// Role is a family member's role
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Family is the workspace parents manage and children belong to
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// FamilyMember links an identity-provider user to a family with a role
type FamilyMember struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"familyId"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Caller is the authenticated user behind a request
type Caller struct {
	UserID string
}
