package service

import (
	"context"
	"fmt"

	"familycoach/internal/models"
	"familycoach/internal/repository"
)

// sessionAccess resolves sessions and checks who may act on them. A parent of
// the session's family or the child who owns it is allowed; nobody else is.
type sessionAccess struct {
	sessions *repository.SessionRepository
	families *repository.FamilyRepository
}

// loadSession fetches a session and its child, then authorizes the caller
func (a *sessionAccess) loadSession(ctx context.Context, caller models.Caller, sessionID string) (*models.CoachingSession, *models.ChildProfile, error) {
	if sessionID == "" {
		return nil, nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	session, err := a.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	child, err := a.families.GetChildByID(ctx, session.ChildID)
	if err != nil {
		return nil, nil, err
	}
	if child == nil {
		return nil, nil, fmt.Errorf("%w: child %s", ErrNotFound, session.ChildID)
	}

	if caller.UserID != "" && child.UserID == caller.UserID {
		return session, child, nil
	}
	if err := a.requireParent(ctx, caller, session.FamilyID); err != nil {
		return nil, nil, err
	}
	return session, child, nil
}

// requireParent fails with ErrUnauthorized unless the caller is a parent of the family
func (a *sessionAccess) requireParent(ctx context.Context, caller models.Caller, familyID string) error {
	if caller.UserID == "" {
		return fmt.Errorf("%w: missing caller", ErrUnauthorized)
	}
	ok, err := a.families.HasRole(ctx, familyID, caller.UserID, models.RoleParent)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: caller is not a parent of this family", ErrUnauthorized)
	}
	return nil
}

// requireFamilyParent also checks that the family exists
func (a *sessionAccess) requireFamilyParent(ctx context.Context, caller models.Caller, familyID string) error {
	if familyID == "" {
		return fmt.Errorf("%w: family id is required", ErrValidation)
	}
	family, err := a.families.GetFamilyByID(ctx, familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return fmt.Errorf("%w: family %s", ErrNotFound, familyID)
	}
	return a.requireParent(ctx, caller, familyID)
}

// familyChild loads a child and checks it belongs to the family
func (a *sessionAccess) familyChild(ctx context.Context, familyID, childID string) (*models.ChildProfile, error) {
	child, err := a.families.GetChildByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.FamilyID != familyID {
		return nil, fmt.Errorf("%w: child %s in family %s", ErrNotFound, childID, familyID)
	}
	return child, nil
}
