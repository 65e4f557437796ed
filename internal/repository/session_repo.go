package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"familycoach/internal/database"
	"familycoach/internal/models"

	"github.com/google/uuid"
)

// SessionRepository handles database operations for coaching sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, family_id, child_id, status, started_at, ended_at, summary"

// CreateSession inserts a new active session
func (r *SessionRepository) CreateSession(ctx context.Context, familyID, childID string, startedAt time.Time) (*models.CoachingSession, error) {
	session := &models.CoachingSession{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		ChildID:   childID,
		Status:    models.SessionActive,
		StartedAt: database.Timestamp(startedAt),
	}

	query := "INSERT INTO coaching_sessions (id, family_id, child_id, status, started_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.Exec(ctx, query, session.ID, session.FamilyID, session.ChildID, string(session.Status), session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSessionByID retrieves a session by ID
func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*models.CoachingSession, error) {
	query := "SELECT " + sessionColumns + " FROM coaching_sessions WHERE id = ?"
	session, err := scanSession(r.db.QueryRow(ctx, query, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// EndSession moves an active session to a terminal status. It reports false
// when the session was not active, leaving the row untouched.
func (r *SessionRepository) EndSession(ctx context.Context, sessionID string, status models.SessionStatus, endedAt time.Time, summary string) (bool, error) {
	query := `
		UPDATE coaching_sessions
		SET status = ?, ended_at = ?, summary = ?
		WHERE id = ? AND status = 'active'
	`
	result, err := r.db.Exec(ctx, query, string(status), database.Timestamp(endedAt), nullString(summary), sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to end session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// CountChildSessions returns how many sessions a child has started
func (r *SessionRepository) CountChildSessions(ctx context.Context, childID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM coaching_sessions WHERE child_id = ?", childID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// ListFamilySessions returns the newest sessions of a family, optionally
// filtered to one child
func (r *SessionRepository) ListFamilySessions(ctx context.Context, familyID, childID string, limit int) ([]models.CoachingSession, error) {
	query := "SELECT " + sessionColumns + " FROM coaching_sessions WHERE family_id = ?"
	args := []interface{}{familyID}
	if childID != "" {
		query += " AND child_id = ?"
		args = append(args, childID)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.CoachingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.CoachingSession, error) {
	session := &models.CoachingSession{}
	var status string
	var endedAt sql.NullTime
	var summary sql.NullString
	err := row.Scan(
		&session.ID,
		&session.FamilyID,
		&session.ChildID,
		&status,
		&session.StartedAt,
		&endedAt,
		&summary,
	)
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionStatus(status)
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	session.Summary = summary.String
	return session, nil
}

// lockActiveSession takes a write lock on the session row inside tx and
// reports whether the session is still active. Writes that must only land on
// an active session run after it in the same transaction, so a concurrent
// EndSession either waits for them or makes them fail.
func lockActiveSession(ctx context.Context, tx database.DBTX, sessionID string) (bool, error) {
	result, err := tx.Exec(ctx, "UPDATE coaching_sessions SET status = status WHERE id = ? AND status = 'active'", sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to lock session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
