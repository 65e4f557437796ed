package models

import "time"

// Badge types
const (
	BadgeActionHero = "action_hero"
	BadgeStreak7    = "streak_7"
)

// Gamification is a user's points ledger
type Gamification struct {
	UserID         string     `json:"userId"`
	Points         int        `json:"points"`
	Streak         int        `json:"streak"`
	Level          int        `json:"level"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Badge is an achievement a user unlocked
type Badge struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BadgeType  string    `json:"badgeType"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// GamificationState is a ledger with its badges
type GamificationState struct {
	Gamification Gamification `json:"gamification"`
	Badges       []Badge      `json:"badges"`
}
