package models

import "time"

// Timeframe selects how far back analytics look
type Timeframe string

const (
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

// Valid reports whether t is a known timeframe
func (t Timeframe) Valid() bool {
	return t == TimeframeWeek || t == TimeframeMonth || t == TimeframeQuarter
}

// Trend is the direction a pattern's confidence is moving
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// PatternBreakdown summarizes the events of one pattern
type PatternBreakdown struct {
	Count         int `json:"count"`
	Percentage    int `json:"percentage"`
	AvgConfidence int `json:"avgConfidence"`
}

// PatternInsight is the per-pattern view shown on the parent dashboard
type PatternInsight struct {
	Pattern       Pattern    `json:"pattern"`
	Frequency     int        `json:"frequency"`
	AvgConfidence int        `json:"avgConfidence"`
	Trend         Trend      `json:"trend"`
	LastSeen      *time.Time `json:"lastSeen"`
	Suggestions   []string   `json:"actionableSuggestions"`
}

// PatternAnalytics is derived from pattern events on demand
type PatternAnalytics struct {
	TotalEvents      int                          `json:"totalEvents"`
	PatternBreakdown map[Pattern]PatternBreakdown `json:"patternBreakdown"`
	Insights         []PatternInsight             `json:"insights"`
	Timeframe        Timeframe                    `json:"timeframe"`
}

// ActionProgress is the offline action checklist progress of one session
type ActionProgress struct {
	Completed      int `json:"completed"`
	Total          int `json:"total"`
	CompletionRate int `json:"completionRate"`
}

// SessionDetail is a session joined with its child, actions and pattern events
type SessionDetail struct {
	Session       CoachingSession
	ChildName     string
	ChildAgeRange AgeRange
	Actions       []OfflineAction
	Events        []PatternEvent
}

// SessionSummary is one row of the parent session overview
type SessionSummary struct {
	ID             string          `json:"id"`
	ChildID        string          `json:"childId"`
	ChildName      string          `json:"childName"`
	ChildAgeRange  AgeRange        `json:"childAgeRange,omitempty"`
	Status         SessionStatus   `json:"status"`
	StartedAt      time.Time       `json:"startedAt"`
	EndedAt        *time.Time      `json:"endedAt,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	ActionProgress ActionProgress  `json:"actionProgress"`
	Patterns       map[Pattern]int `json:"patterns"`
	PatternCount   int             `json:"patternCount"`
}

// SessionTrends aggregates a set of session summaries
type SessionTrends struct {
	PatternFrequency      map[Pattern]int `json:"patternFrequency"`
	OverallCompletionRate int             `json:"overallCompletionRate"`
	TotalSessions         int             `json:"totalSessions"`
	CompletedSessions     int             `json:"completedSessions"`
}

// SessionOverview is the session summary response
type SessionOverview struct {
	Sessions []SessionSummary `json:"sessions"`
	Trends   SessionTrends    `json:"trends"`
}

// PatternHistory pairs raw events with the analytics computed from them
type PatternHistory struct {
	Events    []PatternEvent   `json:"events"`
	Analytics PatternAnalytics `json:"analytics"`
}
