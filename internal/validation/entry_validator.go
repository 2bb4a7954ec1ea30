package validation

import (
	"time"

	"timesheet/internal/domain"
)

// EntryValidator provides validation for time entry mutations.
type EntryValidator struct {
	validator *Validator
}

// NewEntryValidator creates a new time entry validator
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{
		validator: NewValidator(),
	}
}

// ValidateInterval validates the candidate [start, end) interval and
// the short description. These checks run against the effective
// post-mutation values for both creates and updates.
func (ev *EntryValidator) ValidateInterval(startMinutes, endMinutes int, description string) error {
	validationError := NewValidationError()

	if startMinutes < 0 || startMinutes >= 24*60 {
		validationError.AddInvalidValueError("start_time", startMinutes, "must be a wall-clock time within the day")
	}
	if endMinutes <= 0 || endMinutes > 24*60 {
		validationError.AddInvalidValueError("end_time", endMinutes, "must be a wall-clock time within the day")
	}
	if !ev.validator.IsValidInterval(startMinutes, endMinutes) {
		validationError.AddInvalidRangeError("end_time", endMinutes, "end_time must be after start_time")
	}
	if !ev.validator.IsValidDescriptionLength(description) {
		validationError.AddInvalidLengthError("short_description", description, 0, descriptionMaxLength)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateSubmissionWindow rejects dates outside today/yesterday.
// Administrators are exempt and may backdate arbitrarily.
func (ev *EntryValidator) ValidateSubmissionWindow(principal domain.Principal, date, today, yesterday time.Time) error {
	if principal.IsAdmin {
		return nil
	}
	if ev.validator.IsWithinSubmissionWindow(date, today, yesterday) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddPolicyError("date", domain.FormatDate(date), "you can only log hours for today or yesterday")
	return validationError
}

// ValidateEntryID validates a time entry ID.
func (ev *EntryValidator) ValidateEntryID(id int64) error {
	if ev.validator.IsValidID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError("time_entry_id", id, "must be a positive integer")
	return validationError
}

// OverlapError builds the validation error reported when a candidate
// interval conflicts with an existing entry on the same date.
func (ev *EntryValidator) OverlapError(startMinutes, endMinutes int) error {
	validationError := NewValidationError()
	validationError.AddOverlapError("time_range", map[string]string{
		"start": domain.FormatClock(startMinutes),
		"end":   domain.FormatClock(endMinutes),
	})
	return validationError
}
