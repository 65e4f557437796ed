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

// ActionRepository handles database operations for offline actions
type ActionRepository struct {
	db *database.DB
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *database.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

const actionColumns = "id, session_id, action_text, completed, completed_at, created_at"

// AttachActionsIfActive inserts a batch of actions for an active session in
// one transaction. It reports false, writing nothing, when the session is
// missing or terminal.
func (r *ActionRepository) AttachActionsIfActive(ctx context.Context, sessionID string, texts []string, createdAt time.Time) ([]models.OfflineAction, bool, error) {
	createdAt = database.Timestamp(createdAt)
	var actions []models.OfflineAction
	attached := false

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		active, err := lockActiveSession(ctx, tx, sessionID)
		if err != nil || !active {
			return err
		}

		query := "INSERT INTO offline_actions (id, session_id, action_text, completed, created_at) VALUES (?, ?, ?, ?, ?)"
		for _, text := range texts {
			action := models.OfflineAction{
				ID:         uuid.NewString(),
				SessionID:  sessionID,
				ActionText: text,
				CreatedAt:  createdAt,
			}
			if _, err := tx.Exec(ctx, query, action.ID, action.SessionID, action.ActionText, false, action.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert offline action: %w", err)
			}
			actions = append(actions, action)
		}
		attached = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return actions, attached, nil
}

// GetActionByID retrieves an offline action by ID
func (r *ActionRepository) GetActionByID(ctx context.Context, actionID string) (*models.OfflineAction, error) {
	query := "SELECT " + actionColumns + " FROM offline_actions WHERE id = ?"
	action, err := scanAction(r.db.QueryRow(ctx, query, actionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offline action: %w", err)
	}
	return action, nil
}

// MarkCompleted completes an action. It reports false when the action was
// already completed.
func (r *ActionRepository) MarkCompleted(ctx context.Context, actionID string, completedAt time.Time) (bool, error) {
	query := "UPDATE offline_actions SET completed = ?, completed_at = ? WHERE id = ? AND completed = ?"
	result, err := r.db.Exec(ctx, query, true, database.Timestamp(completedAt), actionID, false)
	if err != nil {
		return false, fmt.Errorf("failed to complete offline action: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// ListSessionActions returns the actions of one session in creation order
func (r *ActionRepository) ListSessionActions(ctx context.Context, sessionID string) ([]models.OfflineAction, error) {
	return r.ListActionsForSessions(ctx, []string{sessionID})
}

// ListActionsForSessions returns the actions of the given sessions
func (r *ActionRepository) ListActionsForSessions(ctx context.Context, sessionIDs []string) ([]models.OfflineAction, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + actionColumns + " FROM offline_actions WHERE session_id IN (" +
		placeholders(len(sessionIDs)) + ") ORDER BY created_at ASC, id ASC"

	rows, err := r.db.Query(ctx, query, stringArgs(sessionIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query offline actions: %w", err)
	}
	defer rows.Close()

	var actions []models.OfflineAction
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offline action: %w", err)
		}
		actions = append(actions, *action)
	}

	return actions, rows.Err()
}

func scanAction(row rowScanner) (*models.OfflineAction, error) {
	action := &models.OfflineAction{}
	var completedAt sql.NullTime
	err := row.Scan(
		&action.ID,
		&action.SessionID,
		&action.ActionText,
		&action.Completed,
		&completedAt,
		&action.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		action.CompletedAt = &t
	}
	return action, nil
}
