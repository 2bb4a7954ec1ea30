package domain

import "time"

// EditSnapshot captures the fixed field set recorded around a time
// entry mutation. Fields are pointers so a snapshot can carry only the
// values that belong to the mutation kind: full edits set every field,
// soft deletes set only IsDeleted.
type EditSnapshot struct {
	TaskID            *int64  `json:"task_id,omitempty"`
	TaskTitleSnapshot *string `json:"task_title_snapshot,omitempty"`
	Date              *string `json:"date,omitempty"`
	StartTime         *string `json:"start_time,omitempty"`
	EndTime           *string `json:"end_time,omitempty"`
	DurationMinutes   *int    `json:"duration_minutes,omitempty"`
	ShortDescription  *string `json:"short_description,omitempty"`
	IsDeleted         *bool   `json:"is_deleted,omitempty"`
}

// SnapshotOf captures the audit field set of a time entry.
func SnapshotOf(te *TimeEntry) EditSnapshot {
	title := te.TaskTitleSnapshot
	date := FormatDate(te.Date)
	start := FormatClock(te.StartMinutes)
	end := FormatClock(te.EndMinutes)
	duration := te.DurationMinutes
	description := te.ShortDescription
	return EditSnapshot{
		TaskID:            te.TaskID,
		TaskTitleSnapshot: &title,
		Date:              &date,
		StartTime:         &start,
		EndTime:           &end,
		DurationMinutes:   &duration,
		ShortDescription:  &description,
	}
}

// DeletionSnapshot captures only the is_deleted transition value.
func DeletionSnapshot(deleted bool) EditSnapshot {
	return EditSnapshot{IsDeleted: &deleted}
}

// TimeEntryEdit is one immutable audit record for a committed time
// entry mutation. Records are append-only and never updated or removed.
type TimeEntryEdit struct {
	ID          int64
	TimeEntryID int64
	EditorID    *int64
	OldValues   EditSnapshot
	NewValues   EditSnapshot
	Timestamp   time.Time
}
