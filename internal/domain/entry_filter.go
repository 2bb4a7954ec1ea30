package domain

import "time"

// EntryFilter represents search criteria for time entries. Nil fields
// are unconstrained. CreatedAfter implements the settlement visibility
// cutoff: entries created before an employee's latest settlement roll
// off their default listing.
type EntryFilter struct {
	EmployeeID     *int64
	DateFrom       *time.Time
	DateTo         *time.Time
	TaskID         *int64
	CreatedAfter   *time.Time
	IncludeDeleted bool
}
