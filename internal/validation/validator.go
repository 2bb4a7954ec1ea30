package validation

import (
	"strings"
	"time"
)

const (
	descriptionMaxLength = 300
	titleMaxLength       = 150
)

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := len(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidID checks if a record ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidInterval checks half-open interval sanity: end must be
// strictly after start, both within one calendar day.
func (v *Validator) IsValidInterval(startMinutes, endMinutes int) bool {
	if startMinutes < 0 || endMinutes > 24*60 {
		return false
	}
	return endMinutes > startMinutes
}

// IsValidDescriptionLength checks the short description limit.
func (v *Validator) IsValidDescriptionLength(s string) bool {
	return len(s) <= descriptionMaxLength
}

// IsValidTitleLength checks task and project title limits.
func (v *Validator) IsValidTitleLength(s string) bool {
	length := len(strings.TrimSpace(s))
	return length >= 1 && length <= titleMaxLength
}

// IsWithinSubmissionWindow reports whether date is today or yesterday.
func (v *Validator) IsWithinSubmissionWindow(date, today, yesterday time.Time) bool {
	return sameDate(date, today) || sameDate(date, yesterday)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
