package repository

import (
	"context"
	"fmt"
	"time"

	"familycoach/internal/database"
	"familycoach/internal/models"

	"github.com/google/uuid"
)

// PatternRepository handles database operations for pattern events
type PatternRepository struct {
	db *database.DB
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(db *database.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

const patternEventColumns = "id, family_id, child_id, session_id, pattern, confidence, created_at"

// RecordEventIfActive appends a pattern event for an active session. It
// reports false, writing nothing, when the session is missing or terminal.
func (r *PatternRepository) RecordEventIfActive(ctx context.Context, event *models.PatternEvent) (bool, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = database.Timestamp(event.CreatedAt)

	recorded := false
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		active, err := lockActiveSession(ctx, tx, event.SessionID)
		if err != nil || !active {
			return err
		}

		query := "INSERT INTO pattern_events (" + patternEventColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err = tx.Exec(ctx, query,
			event.ID, event.FamilyID, event.ChildID, event.SessionID,
			string(event.Pattern), event.Confidence, event.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert pattern event: %w", err)
		}
		recorded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}

// GetRecentPatterns returns the distinct patterns most recently seen for a
// child, newest first
func (r *PatternRepository) GetRecentPatterns(ctx context.Context, childID string, limit int) ([]models.Pattern, error) {
	query := `
		SELECT pattern FROM pattern_events
		WHERE child_id = ?
		GROUP BY pattern
		ORDER BY MAX(created_at) DESC
		LIMIT ?
	`
	rows, err := r.db.Query(ctx, query, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.Pattern
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, models.Pattern(p))
	}

	return patterns, rows.Err()
}

// ListEvents returns a family's pattern events created at or after since, in
// ascending chronological order. An empty childID selects every child.
func (r *PatternRepository) ListEvents(ctx context.Context, familyID, childID string, since time.Time) ([]models.PatternEvent, error) {
	query := "SELECT " + patternEventColumns + " FROM pattern_events WHERE family_id = ? AND created_at >= ?"
	args := []interface{}{familyID, database.Timestamp(since)}
	if childID != "" {
		query += " AND child_id = ?"
		args = append(args, childID)
	}
	query += " ORDER BY created_at ASC, id ASC"

	return r.queryEvents(ctx, query, args...)
}

// ListSessionEvents returns the pattern events of the given sessions
func (r *PatternRepository) ListSessionEvents(ctx context.Context, sessionIDs []string) ([]models.PatternEvent, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + patternEventColumns + " FROM pattern_events WHERE session_id IN (" +
		placeholders(len(sessionIDs)) + ") ORDER BY created_at ASC, id ASC"
	return r.queryEvents(ctx, query, stringArgs(sessionIDs)...)
}

func (r *PatternRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.PatternEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern events: %w", err)
	}
	defer rows.Close()

	var events []models.PatternEvent
	for rows.Next() {
		var event models.PatternEvent
		var pattern string
		if err := rows.Scan(
			&event.ID,
			&event.FamilyID,
			&event.ChildID,
			&event.SessionID,
			&pattern,
			&event.Confidence,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern event: %w", err)
		}
		event.Pattern = models.Pattern(pattern)
		events = append(events, event)
	}

	return events, rows.Err()
}
