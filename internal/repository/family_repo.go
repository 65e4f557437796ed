package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familycoach/internal/database"
	"familycoach/internal/models"

	"github.com/google/uuid"
)

// FamilyRepository handles database operations for families, their members
// and child profiles
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family
func (r *FamilyRepository) CreateFamily(ctx context.Context, name string) (*models.Family, error) {
	family := &models.Family{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: database.Now(),
	}

	query := "INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(ctx, query, family.ID, family.Name, family.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return family, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, familyID string) (*models.Family, error) {
	query := "SELECT id, name, created_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(ctx, query, familyID).Scan(&family.ID, &family.Name, &family.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// AddFamilyMember adds a user to a family with the given role
func (r *FamilyRepository) AddFamilyMember(ctx context.Context, familyID, userID string, role models.Role, email string) (*models.FamilyMember, error) {
	member := &models.FamilyMember{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		UserID:    userID,
		Role:      role,
		Email:     email,
		CreatedAt: database.Now(),
	}

	query := `
		INSERT INTO family_members (id, family_id, user_id, role, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.FamilyID, member.UserID, string(member.Role), nullString(email), member.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	return member, nil
}

// HasRole checks whether a user holds a role in a family
func (r *FamilyRepository) HasRole(ctx context.Context, familyID, userID string, role models.Role) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE family_id = ? AND user_id = ? AND role = ?"
	var count int
	if err := r.db.QueryRow(ctx, query, familyID, userID, string(role)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family role: %w", err)
	}
	return count > 0, nil
}

// GetParentEmails returns the email addresses of a family's parents
func (r *FamilyRepository) GetParentEmails(ctx context.Context, familyID string) ([]string, error) {
	query := `
		SELECT email FROM family_members
		WHERE family_id = ? AND role = 'parent' AND email IS NOT NULL AND email <> ''
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parent emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan parent email: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

// CreateChild creates a child profile in a family
func (r *FamilyRepository) CreateChild(ctx context.Context, familyID, userID, displayName string, ageRange models.AgeRange) (*models.ChildProfile, error) {
	child := &models.ChildProfile{
		ID:          uuid.NewString(),
		FamilyID:    familyID,
		UserID:      userID,
		DisplayName: displayName,
		AgeRange:    ageRange,
		CreatedAt:   database.Now(),
	}

	query := `
		INSERT INTO child_profiles (id, family_id, user_id, display_name, age_range, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query,
		child.ID, child.FamilyID, nullString(userID), child.DisplayName, nullString(string(ageRange)), child.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create child profile: %w", err)
	}

	return child, nil
}

// GetChildByID retrieves a child profile by ID
func (r *FamilyRepository) GetChildByID(ctx context.Context, childID string) (*models.ChildProfile, error) {
	query := `
		SELECT id, family_id, user_id, display_name, age_range, created_at
		FROM child_profiles WHERE id = ?
	`
	child := &models.ChildProfile{}
	var userID, ageRange sql.NullString
	err := r.db.QueryRow(ctx, query, childID).Scan(
		&child.ID,
		&child.FamilyID,
		&userID,
		&child.DisplayName,
		&ageRange,
		&child.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child profile: %w", err)
	}

	child.UserID = userID.String
	child.AgeRange = models.AgeRange(ageRange.String)
	return child, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
