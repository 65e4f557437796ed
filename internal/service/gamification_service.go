package service

import (
	"context"
	"fmt"
	"time"

	"familycoach/internal/database"
	"familycoach/internal/logger"
	"familycoach/internal/models"
	"familycoach/internal/repository"
)

const (
	pointsPerAction   = 10
	pointsPerLevel    = 100
	streakBadgeLength = 7
	awardAttempts     = 3
)

// GamificationService keeps the points, streak and badge ledger of a user
type GamificationService struct {
	repo *repository.GamificationRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewGamificationService creates a new gamification service
func NewGamificationService(repo *repository.GamificationRepository, log *logger.Logger) *GamificationService {
	if log == nil {
		log = logger.NewNop()
	}
	return &GamificationService{
		repo: repo,
		log:  log.With("component", "gamification_service"),
		now:  database.Now,
	}
}

// Get returns the ledger and badges of a user, creating an empty ledger on first read
func (s *GamificationService) Get(ctx context.Context, userID string) (*models.GamificationState, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	g, err := s.ensureLedger(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, g)
}

// AwardActionCompletion adds the points for one completed action and
// unlocks any badges earned
func (s *GamificationService) AwardActionCompletion(ctx context.Context, userID string, at time.Time) (*models.GamificationState, error) {
	var next models.Gamification
	for attempt := 0; ; attempt++ {
		if attempt == awardAttempts {
			return nil, fmt.Errorf("failed to award points to %s: ledger kept changing", userID)
		}

		current, err := s.ensureLedger(ctx, userID)
		if err != nil {
			return nil, err
		}

		next = applyActionCompletion(*current, at)
		ok, err := s.repo.UpdateGamificationIfPoints(ctx, &next, current.Points)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
	}

	s.unlock(ctx, userID, models.BadgeActionHero, at)
	if next.Streak >= streakBadgeLength {
		s.unlock(ctx, userID, models.BadgeStreak7, at)
	}

	return s.state(ctx, &next)
}

func (s *GamificationService) unlock(ctx context.Context, userID, badge string, at time.Time) {
	added, err := s.repo.AddBadge(ctx, userID, badge, at)
	if err != nil {
		s.log.Error("Failed to unlock badge", "user_id", userID, "badge", badge, "error", err)
		return
	}
	if added {
		s.log.Info("Badge unlocked", "user_id", userID, "badge", badge)
	}
}

func (s *GamificationService) ensureLedger(ctx context.Context, userID string) (*models.Gamification, error) {
	g, err := s.repo.GetGamification(ctx, userID)
	if err != nil || g != nil {
		return g, err
	}

	fresh := &models.Gamification{UserID: userID, Level: 1, UpdatedAt: s.now()}
	if createErr := s.repo.CreateGamification(ctx, fresh); createErr != nil {
		// A concurrent first read may have created it
		g, err = s.repo.GetGamification(ctx, userID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, createErr
		}
		return g, nil
	}
	return fresh, nil
}

func (s *GamificationService) state(ctx context.Context, g *models.Gamification) (*models.GamificationState, error) {
	badges, err := s.repo.ListBadges(ctx, g.UserID)
	if err != nil {
		return nil, err
	}
	return &models.GamificationState{Gamification: *g, Badges: badges}, nil
}

// applyActionCompletion computes the ledger after one completion. Streaks
// count consecutive UTC calendar days.
func applyActionCompletion(g models.Gamification, at time.Time) models.Gamification {
	g.Points += pointsPerAction
	g.Level = g.Points/pointsPerLevel + 1

	switch {
	case g.LastActivityAt == nil || g.Streak == 0:
		g.Streak = 1
	default:
		switch daysBetween(*g.LastActivityAt, at) {
		case 0:
		case 1:
			g.Streak++
		default:
			g.Streak = 1
		}
	}

	at = database.Timestamp(at)
	g.LastActivityAt = &at
	g.UpdatedAt = at
	return g
}

func daysBetween(from, to time.Time) int {
	y1, m1, d1 := from.UTC().Date()
	y2, m2, d2 := to.UTC().Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
