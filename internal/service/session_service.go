package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"familycoach/internal/coaching"
	"familycoach/internal/database"
	"familycoach/internal/logger"
	"familycoach/internal/metrics"
	"familycoach/internal/models"
	"familycoach/internal/repository"
)

const (
	defaultSessionSummary = "Session completed"
	recentPatternWindow   = 5
	sideWriteTimeout      = 5 * time.Second
)

// SessionService runs the coaching session lifecycle
type SessionService struct {
	sessionAccess
	patterns *repository.PatternRepository
	analyzer *coaching.Analyzer
	prompts  *coaching.PromptGenerator
	email    *EmailService
	log      *logger.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service. email may be nil.
func NewSessionService(
	sessions *repository.SessionRepository,
	families *repository.FamilyRepository,
	patterns *repository.PatternRepository,
	analyzer *coaching.Analyzer,
	prompts *coaching.PromptGenerator,
	email *EmailService,
	log *logger.Logger,
) *SessionService {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionService{
		sessionAccess: sessionAccess{sessions: sessions, families: families},
		patterns:      patterns,
		analyzer:      analyzer,
		prompts:       prompts,
		email:         email,
		log:           log.With("component", "session_service"),
		now:           database.Now,
	}
}

// Create starts an active session for a child. Only parents of the family may do so.
func (s *SessionService) Create(ctx context.Context, caller models.Caller, familyID, childID string) (*models.CoachingSession, error) {
	if childID == "" {
		return nil, fmt.Errorf("%w: child id is required", ErrValidation)
	}
	if err := s.requireFamilyParent(ctx, caller, familyID); err != nil {
		return nil, err
	}
	if _, err := s.familyChild(ctx, familyID, childID); err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(ctx, familyID, childID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(models.SessionActive)).Inc()
	s.log.Info("Session created", "session_id", session.ID, "family_id", familyID, "child_id", childID)
	return session, nil
}

// Get returns a session the caller may see
func (s *SessionService) Get(ctx context.Context, caller models.Caller, sessionID string) (*models.CoachingSession, error) {
	session, _, err := s.loadSession(ctx, caller, sessionID)
	return session, err
}

// SubmitReflection analyzes a child's reflection. The analysis is returned
// even when recording the detected pattern fails.
func (s *SessionService) SubmitReflection(ctx context.Context, caller models.Caller, sessionID, childText string) (models.CoachingAnalysis, error) {
	if strings.TrimSpace(childText) == "" {
		return models.CoachingAnalysis{}, fmt.Errorf("%w: child response is required", ErrValidation)
	}

	session, child, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return models.CoachingAnalysis{}, err
	}
	if session.Status != models.SessionActive {
		return models.CoachingAnalysis{}, fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}

	recent := s.recentPatterns(ctx, child.ID)
	analysis := s.analyzer.Analyze(ctx, childText, child.AgeRange, recent)

	s.recordPatternEvent(ctx, session, analysis)
	return analysis, nil
}

// Complete ends an active session as completed
func (s *SessionService) Complete(ctx context.Context, caller models.Caller, sessionID, summary string) (*models.CoachingSession, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = defaultSessionSummary
	}

	session, child, err := s.end(ctx, caller, sessionID, models.SessionCompleted, summary)
	if err != nil {
		return nil, err
	}

	s.notifyParents(ctx, session, child)
	return session, nil
}

// Abandon ends an active session as abandoned
func (s *SessionService) Abandon(ctx context.Context, caller models.Caller, sessionID string) (*models.CoachingSession, error) {
	session, _, err := s.end(ctx, caller, sessionID, models.SessionAbandoned, "")
	return session, err
}

// NextPrompt picks the reflection question for a session
func (s *SessionService) NextPrompt(ctx context.Context, caller models.Caller, sessionID string) (string, error) {
	_, child, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return "", err
	}

	count, err := s.sessions.CountChildSessions(ctx, child.ID)
	if err != nil {
		s.log.Warn("Failed to count child sessions", "child_id", child.ID, "error", err)
	}

	return s.prompts.Generate(ctx, child.AgeRange, s.recentPatterns(ctx, child.ID), count), nil
}

// end performs the single terminal transition. The status check in the
// UPDATE is what decides a race; the earlier read only gives a quicker error.
func (s *SessionService) end(ctx context.Context, caller models.Caller, sessionID string, status models.SessionStatus, summary string) (*models.CoachingSession, *models.ChildProfile, error) {
	session, child, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.SessionActive {
		return nil, nil, fmt.Errorf("%w: session is already %s", ErrInvalidState, session.Status)
	}

	endedAt := s.now()
	ok, err := s.sessions.EndSession(ctx, sessionID, status, endedAt, summary)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: session was ended concurrently", ErrInvalidState)
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(status)).Inc()
	s.log.Info("Session ended", "session_id", sessionID, "status", status)

	session.Status = status
	endedAt = database.Timestamp(endedAt)
	session.EndedAt = &endedAt
	session.Summary = summary
	return session, child, nil
}

// recentPatterns degrades to no context when the lookup fails
func (s *SessionService) recentPatterns(ctx context.Context, childID string) []models.Pattern {
	patterns, err := s.patterns.GetRecentPatterns(ctx, childID, recentPatternWindow)
	if err != nil {
		s.log.Warn("Failed to load recent patterns", "child_id", childID, "error", err)
		return nil
	}
	return patterns
}

// recordPatternEvent is a side write with its own failure boundary. It
// outlives a cancelled request and never reports errors to the caller.
func (s *SessionService) recordPatternEvent(ctx context.Context, session *models.CoachingSession, analysis models.CoachingAnalysis) {
	if analysis.DetectedPattern == nil {
		return
	}
	pattern := *analysis.DetectedPattern
	if !pattern.Valid() {
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		s.log.Warn("Ignoring unknown detected pattern", "session_id", session.ID, "pattern", string(pattern))
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideWriteTimeout)
	defer cancel()

	event := &models.PatternEvent{
		FamilyID:   session.FamilyID,
		ChildID:    session.ChildID,
		SessionID:  session.ID,
		Pattern:    pattern,
		Confidence: ConfidenceScore(analysis.PatternConfidence),
		CreatedAt:  s.now(),
	}

	recorded, err := s.patterns.RecordEventIfActive(writeCtx, event)
	switch {
	case err != nil:
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		s.log.Error("Failed to record pattern event", "session_id", session.ID, "pattern", string(pattern), "error", err)
	case !recorded:
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		s.log.Info("Session ended before pattern event was recorded", "session_id", session.ID)
	default:
		metrics.PatternEventsTotal.WithLabelValues(metrics.ResultRecorded).Inc()
	}
}

// notifyParents emails the session summary to every parent with an address
func (s *SessionService) notifyParents(ctx context.Context, session *models.CoachingSession, child *models.ChildProfile) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideWriteTimeout)
	defer cancel()

	emails, err := s.families.GetParentEmails(sendCtx, session.FamilyID)
	if err != nil {
		s.log.Warn("Failed to load parent emails", "family_id", session.FamilyID, "error", err)
		return
	}
	for _, to := range emails {
		if err := s.email.SendSessionSummary(sendCtx, to, child.DisplayName, session); err != nil {
			s.log.Warn("Failed to send session summary", "session_id", session.ID, "error", err)
		}
	}
}

// ConfidenceScore converts a 0-1 model confidence to the stored 1-5 scale
func ConfidenceScore(confidence float64) int {
	score := int(math.Round(confidence * 5))
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
