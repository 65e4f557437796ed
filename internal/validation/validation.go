// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"familycoach/internal/models"

	"github.com/google/uuid"
)

const (
	MaxChildResponseLength = 2000
	MaxSummaryLength       = 500
	MaxActionTextLength    = 200
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateID checks that an identifier is a UUID
func ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return ValidationError{Field: field, Message: "must be a valid UUID"}
	}
	return nil
}

// ValidateOptionalID is ValidateID for filters that may be omitted
func ValidateOptionalID(field, id string) error {
	if id == "" {
		return nil
	}
	return ValidateID(field, id)
}

// ValidateChildResponse checks a reflection before it is analyzed
func ValidateChildResponse(text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: "childResponse", Message: "response is required"}
	}
	if utf8.RuneCountInString(text) > MaxChildResponseLength {
		return ValidationError{Field: "childResponse", Message: fmt.Sprintf("must be at most %d characters", MaxChildResponseLength)}
	}
	return nil
}

// ValidateSummary checks an optional session summary
func ValidateSummary(summary string) error {
	if utf8.RuneCountInString(summary) > MaxSummaryLength {
		return ValidationError{Field: "summary", Message: fmt.Sprintf("must be at most %d characters", MaxSummaryLength)}
	}
	return nil
}

// ValidateActions checks offline action texts supplied by a client
func ValidateActions(texts []string) error {
	for _, text := range texts {
		if utf8.RuneCountInString(text) > MaxActionTextLength {
			return ValidationError{Field: "offlineActions", Message: fmt.Sprintf("each action must be at most %d characters", MaxActionTextLength)}
		}
	}
	return nil
}

// ValidateTimeframe accepts week, month, quarter or empty
func ValidateTimeframe(tf string) error {
	if tf == "" || models.Timeframe(tf).Valid() {
		return nil
	}
	return ValidationError{Field: "timeframe", Message: "must be week, month or quarter"}
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}
