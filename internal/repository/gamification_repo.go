package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"familycoach/internal/database"
	"familycoach/internal/models"

	"github.com/google/uuid"
)

// GamificationRepository handles database operations for points ledgers and badges
type GamificationRepository struct {
	db *database.DB
}

// NewGamificationRepository creates a new gamification repository
func NewGamificationRepository(db *database.DB) *GamificationRepository {
	return &GamificationRepository{db: db}
}

// GetGamification retrieves a user's ledger, nil when none exists yet
func (r *GamificationRepository) GetGamification(ctx context.Context, userID string) (*models.Gamification, error) {
	query := "SELECT user_id, points, streak, level, last_activity_at, updated_at FROM gamification WHERE user_id = ?"
	g := &models.Gamification{}
	var lastActivity sql.NullTime
	err := r.db.QueryRow(ctx, query, userID).Scan(&g.UserID, &g.Points, &g.Streak, &g.Level, &lastActivity, &g.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gamification: %w", err)
	}

	if lastActivity.Valid {
		t := lastActivity.Time
		g.LastActivityAt = &t
	}
	return g, nil
}

// CreateGamification inserts a fresh ledger
func (r *GamificationRepository) CreateGamification(ctx context.Context, g *models.Gamification) error {
	query := `
		INSERT INTO gamification (user_id, points, streak, level, last_activity_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query, g.UserID, g.Points, g.Streak, g.Level, nullTime(g.LastActivityAt), database.Timestamp(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create gamification: %w", err)
	}
	return nil
}

// UpdateGamificationIfPoints writes g only when the stored points still
// equal expectedPoints. It reports false when another writer got there first.
func (r *GamificationRepository) UpdateGamificationIfPoints(ctx context.Context, g *models.Gamification, expectedPoints int) (bool, error) {
	query := `
		UPDATE gamification
		SET points = ?, streak = ?, level = ?, last_activity_at = ?, updated_at = ?
		WHERE user_id = ? AND points = ?
	`
	result, err := r.db.Exec(ctx, query,
		g.Points, g.Streak, g.Level, nullTime(g.LastActivityAt), database.Timestamp(g.UpdatedAt),
		g.UserID, expectedPoints)
	if err != nil {
		return false, fmt.Errorf("failed to update gamification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// HasBadge checks whether a user already unlocked a badge
func (r *GamificationRepository) HasBadge(ctx context.Context, userID, badgeType string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM badges WHERE user_id = ? AND badge_type = ?", userID, badgeType).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check badge: %w", err)
	}
	return count > 0, nil
}

// AddBadge unlocks a badge. It reports false when the user already had it.
func (r *GamificationRepository) AddBadge(ctx context.Context, userID, badgeType string, unlockedAt time.Time) (bool, error) {
	has, err := r.HasBadge(ctx, userID, badgeType)
	if err != nil || has {
		return false, err
	}

	query := "INSERT INTO badges (id, user_id, badge_type, unlocked_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(ctx, query, uuid.NewString(), userID, badgeType, database.Timestamp(unlockedAt)); err != nil {
		// Lost a race on the unique (user_id, badge_type) key
		if has, checkErr := r.HasBadge(ctx, userID, badgeType); checkErr == nil && has {
			return false, nil
		}
		return false, fmt.Errorf("failed to add badge: %w", err)
	}
	return true, nil
}

// ListBadges returns a user's badges in unlock order
func (r *GamificationRepository) ListBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	query := "SELECT id, user_id, badge_type, unlocked_at FROM badges WHERE user_id = ? ORDER BY unlocked_at ASC"
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	return badges, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: database.Timestamp(*t), Valid: true}
}
