package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/repository/sqlite"
)

func TestMapperEntryRoundTrip(t *testing.T) {
	mapper := NewMapper(time.UTC)

	taskID := int64(4)
	editor := int64(1)
	entry := TimeEntry{
		ID:                12,
		EmployeeID:        7,
		TaskID:            &taskID,
		TaskTitleSnapshot: "Landing page",
		Date:              time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		StartMinutes:      9 * 60,
		EndMinutes:        10*60 + 30,
		DurationMinutes:   90,
		ShortDescription:  "code review",
		Source:            SourceManual,
		EditedBy:          &editor,
		CreatedAt:         time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
	}

	dbEntry := mapper.EntryToDatabase(entry)
	assert.Equal(t, "2026-08-15", dbEntry.Date)
	assert.Equal(t, "09:00", dbEntry.StartTime)
	assert.Equal(t, "10:30", dbEntry.EndTime)
	require.NotNil(t, dbEntry.ShortDescription)
	assert.Equal(t, "code review", *dbEntry.ShortDescription)

	back, err := mapper.EntryFromDatabase(dbEntry)
	require.NoError(t, err)
	assert.Equal(t, entry, back)
}

func TestMapperEntryEmptyDescription(t *testing.T) {
	mapper := NewMapper(time.UTC)

	entry := TimeEntry{
		EmployeeID:   7,
		Date:         time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		StartMinutes: 60,
		EndMinutes:   120,
		Source:       SourceTimer,
	}

	dbEntry := mapper.EntryToDatabase(entry)
	assert.Nil(t, dbEntry.ShortDescription)

	back, err := mapper.EntryFromDatabase(dbEntry)
	require.NoError(t, err)
	assert.Equal(t, "", back.ShortDescription)
}

func TestMapperEntryFromDatabaseCorruptDate(t *testing.T) {
	mapper := NewMapper(time.UTC)

	_, err := mapper.EntryFromDatabase(sqlite.TimeEntry{
		Date:      "not-a-date",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	assert.Error(t, err)
}

func TestMapperEditRoundTrip(t *testing.T) {
	mapper := NewMapper(time.UTC)

	editor := int64(1)
	edit := TimeEntryEdit{
		ID:          3,
		TimeEntryID: 12,
		EditorID:    &editor,
		OldValues:   DeletionSnapshot(false),
		NewValues:   DeletionSnapshot(true),
		Timestamp:   time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
	}

	dbEdit, err := mapper.EditToDatabase(edit)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_deleted":false}`, dbEdit.OldValues)
	assert.JSONEq(t, `{"is_deleted":true}`, dbEdit.NewValues)

	back, err := mapper.EditFromDatabase(dbEdit)
	require.NoError(t, err)
	assert.Equal(t, edit, back)
}

func TestMapperFilterToDatabase(t *testing.T) {
	mapper := NewMapper(time.UTC)

	employeeID := int64(7)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	opts := mapper.FilterToDatabase(EntryFilter{
		EmployeeID: &employeeID,
		DateFrom:   &from,
		DateTo:     &to,
	})

	require.NotNil(t, opts.DateFrom)
	require.NotNil(t, opts.DateTo)
	assert.Equal(t, "2026-08-01", *opts.DateFrom)
	assert.Equal(t, "2026-08-31", *opts.DateTo)
	assert.Equal(t, &employeeID, opts.EmployeeID)
	assert.Nil(t, opts.TaskID)
	assert.False(t, opts.IncludeDeleted)
}
