package service

import (
	"context"
	"fmt"
	"time"

	"familycoach/internal/analytics"
	"familycoach/internal/database"
	"familycoach/internal/logger"
	"familycoach/internal/metrics"
	"familycoach/internal/models"
	"familycoach/internal/repository"
)

const (
	defaultSummaryLimit = 10
	maxSummaryLimit     = 100
)

// AnalyticsService serves the parent dashboard views
type AnalyticsService struct {
	sessionAccess
	patterns *repository.PatternRepository
	actions  *repository.ActionRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	sessions *repository.SessionRepository,
	families *repository.FamilyRepository,
	patterns *repository.PatternRepository,
	actions *repository.ActionRepository,
	log *logger.Logger,
) *AnalyticsService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalyticsService{
		sessionAccess: sessionAccess{sessions: sessions, families: families},
		patterns:      patterns,
		actions:       actions,
		log:           log.With("component", "analytics_service"),
		now:           database.Now,
	}
}

// PatternEvents returns the events of a family within the timeframe, oldest
// first, along with their analytics. An empty timeframe means a month.
func (s *AnalyticsService) PatternEvents(ctx context.Context, caller models.Caller, familyID, childID string, timeframe models.Timeframe) (*models.PatternHistory, error) {
	if timeframe == "" {
		timeframe = models.TimeframeMonth
	}
	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: unknown timeframe %q", ErrValidation, timeframe)
	}
	if err := s.requireFamilyParent(ctx, caller, familyID); err != nil {
		return nil, err
	}
	if childID != "" {
		if _, err := s.familyChild(ctx, familyID, childID); err != nil {
			return nil, err
		}
	}

	events, err := s.patterns.ListEvents(ctx, familyID, childID, analytics.TimeframeStart(timeframe, s.now()))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.PatternEvent{}
	}

	return &models.PatternHistory{
		Events:    events,
		Analytics: analytics.ComputePatternAnalytics(events, timeframe),
	}, nil
}

// RecordPatternEvent lets a parent log an observed pattern on an active session
func (s *AnalyticsService) RecordPatternEvent(ctx context.Context, caller models.Caller, sessionID string, pattern models.Pattern, confidence int) (*models.PatternEvent, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: unknown pattern %q", ErrValidation, pattern)
	}
	if confidence < 1 || confidence > 5 {
		return nil, fmt.Errorf("%w: confidence must be between 1 and 5", ErrValidation)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if err := s.requireParent(ctx, caller, session.FamilyID); err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}

	event := &models.PatternEvent{
		FamilyID:   session.FamilyID,
		ChildID:    session.ChildID,
		SessionID:  session.ID,
		Pattern:    pattern,
		Confidence: confidence,
		CreatedAt:  s.now(),
	}
	recorded, err := s.patterns.RecordEventIfActive(ctx, event)
	if err != nil {
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return nil, err
	}
	if !recorded {
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return nil, fmt.Errorf("%w: session ended before the event was recorded", ErrInvalidState)
	}

	metrics.PatternEventsTotal.WithLabelValues(metrics.ResultRecorded).Inc()
	return event, nil
}

// SessionSummary returns the newest sessions of a family with per-session
// progress and overall trends
func (s *AnalyticsService) SessionSummary(ctx context.Context, caller models.Caller, familyID, childID string, limit int) (*models.SessionOverview, error) {
	if limit <= 0 {
		limit = defaultSummaryLimit
	}
	if limit > maxSummaryLimit {
		limit = maxSummaryLimit
	}
	if err := s.requireFamilyParent(ctx, caller, familyID); err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListFamilySessions(ctx, familyID, childID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}

	actions, err := s.actions.ListActionsForSessions(ctx, ids)
	if err != nil {
		return nil, err
	}
	events, err := s.patterns.ListSessionEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	actionsBySession := make(map[string][]models.OfflineAction)
	for _, a := range actions {
		actionsBySession[a.SessionID] = append(actionsBySession[a.SessionID], a)
	}
	eventsBySession := make(map[string][]models.PatternEvent)
	for _, e := range events {
		eventsBySession[e.SessionID] = append(eventsBySession[e.SessionID], e)
	}

	children := make(map[string]*models.ChildProfile)
	details := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		child, seen := children[session.ChildID]
		if !seen {
			child, err = s.families.GetChildByID(ctx, session.ChildID)
			if err != nil {
				return nil, err
			}
			children[session.ChildID] = child
		}

		detail := models.SessionDetail{
			Session: session,
			Actions: actionsBySession[session.ID],
			Events:  eventsBySession[session.ID],
		}
		if child != nil {
			detail.ChildName = child.DisplayName
			detail.ChildAgeRange = child.AgeRange
		}
		details = append(details, detail)
	}

	overview := analytics.SummarizeSessions(details)
	return &overview, nil
}
