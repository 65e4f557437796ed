package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"familycoach/internal/database"
	"familycoach/internal/logger"
	"familycoach/internal/models"
	"familycoach/internal/repository"
)

const maxActionsPerReflection = 5

// ActionService manages the offline action checklist of a session
type ActionService struct {
	sessionAccess
	actions      *repository.ActionRepository
	gamification *GamificationService
	log          *logger.Logger
	now          func() time.Time
}

// NewActionService creates a new action service
func NewActionService(
	sessions *repository.SessionRepository,
	families *repository.FamilyRepository,
	actions *repository.ActionRepository,
	gamification *GamificationService,
	log *logger.Logger,
) *ActionService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ActionService{
		sessionAccess: sessionAccess{sessions: sessions, families: families},
		actions:       actions,
		gamification:  gamification,
		log:           log.With("component", "action_service"),
		now:           database.Now,
	}
}

// Attach stores the suggested actions of one reflection as checklist items.
// Blank entries are dropped and at most five are kept.
func (s *ActionService) Attach(ctx context.Context, caller models.Caller, sessionID string, texts []string) ([]models.OfflineAction, error) {
	session, _, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidState, session.Status)
	}

	cleaned := make([]string, 0, maxActionsPerReflection)
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
		if len(cleaned) == maxActionsPerReflection {
			break
		}
	}
	if len(cleaned) == 0 {
		return []models.OfflineAction{}, nil
	}

	actions, attached, err := s.actions.AttachActionsIfActive(ctx, sessionID, cleaned, s.now())
	if err != nil {
		return nil, err
	}
	if !attached {
		return nil, fmt.Errorf("%w: session ended before actions were attached", ErrInvalidState)
	}
	return actions, nil
}

// List returns the checklist of a session
func (s *ActionService) List(ctx context.Context, caller models.Caller, sessionID string) ([]models.OfflineAction, error) {
	if _, _, err := s.loadSession(ctx, caller, sessionID); err != nil {
		return nil, err
	}

	actions, err := s.actions.ListSessionActions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []models.OfflineAction{}
	}
	return actions, nil
}

// Complete ticks off an action. Completing it again returns it unchanged.
// The child's first completion earns gamification points.
func (s *ActionService) Complete(ctx context.Context, caller models.Caller, actionID string) (*models.OfflineAction, error) {
	if actionID == "" {
		return nil, fmt.Errorf("%w: action id is required", ErrValidation)
	}

	action, err := s.actions.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, fmt.Errorf("%w: action %s", ErrNotFound, actionID)
	}

	_, child, err := s.loadSession(ctx, caller, action.SessionID)
	if err != nil {
		return nil, err
	}
	if action.Completed {
		return action, nil
	}

	completedAt := s.now()
	changed, err := s.actions.MarkCompleted(ctx, actionID, completedAt)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.actions.GetActionByID(ctx, actionID)
	}

	completedAt = database.Timestamp(completedAt)
	action.Completed = true
	action.CompletedAt = &completedAt

	if child.UserID != "" && child.UserID == caller.UserID && s.gamification != nil {
		if _, err := s.gamification.AwardActionCompletion(ctx, child.UserID, completedAt); err != nil {
			s.log.Error("Failed to award action completion", "action_id", actionID, "user_id", child.UserID, "error", err)
		}
	}

	return action, nil
}
