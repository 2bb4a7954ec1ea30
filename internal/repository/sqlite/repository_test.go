package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "timesheet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func newTestEntry(employeeID int64, date, start, end string, minutes int) *TimeEntry {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	return &TimeEntry{
		EmployeeID:      employeeID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		Source:          "MANUAL",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCreateAndGetTimeEntry(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	entry := newTestEntry(7, "2026-08-15", "09:00", "10:30", 90)
	description := "code review"
	entry.ShortDescription = &description

	require.NoError(t, repo.CreateTimeEntry(ctx, entry))
	assert.Greater(t, entry.ID, int64(0))

	retrieved, err := repo.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, retrieved.ID)
	assert.Equal(t, int64(7), retrieved.EmployeeID)
	assert.Equal(t, "2026-08-15", retrieved.Date)
	assert.Equal(t, "09:00", retrieved.StartTime)
	assert.Equal(t, "10:30", retrieved.EndTime)
	assert.Equal(t, 90, retrieved.DurationMinutes)
	require.NotNil(t, retrieved.ShortDescription)
	assert.Equal(t, "code review", *retrieved.ShortDescription)
	assert.False(t, retrieved.IsDeleted)
	assert.Equal(t, entry.CreatedAt.Unix(), retrieved.CreatedAt.Unix())
}

func TestGetTimeEntryNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetTimeEntry(context.Background(), 999)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestListEntriesForEmployeeDate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-08-15", "10:30", "12:00", 90)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-08-15", "09:00", "10:30", 90)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-08-14", "09:00", "10:00", 60)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(8, "2026-08-15", "09:00", "10:00", 60)))

	entries, err := repo.ListEntriesForEmployeeDate(ctx, 7, "2026-08-15")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "09:00", entries[0].StartTime)
	assert.Equal(t, "10:30", entries[1].StartTime)
}

func TestUpdateTimeEntryWithEdit(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	entry := newTestEntry(7, "2026-08-15", "09:00", "10:30", 90)
	require.NoError(t, repo.CreateTimeEntry(ctx, entry))

	entry.EndTime = "11:00"
	entry.DurationMinutes = 120
	edit := &TimeEntryEdit{
		TimeEntryID: entry.ID,
		OldValues:   `{"end_time":"10:30"}`,
		NewValues:   `{"end_time":"11:00"}`,
		Timestamp:   time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.UpdateTimeEntryWithEdit(ctx, entry, edit))
	assert.Greater(t, edit.ID, int64(0))

	retrieved, err := repo.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "11:00", retrieved.EndTime)
	assert.Equal(t, 120, retrieved.DurationMinutes)

	edits, err := repo.ListEditsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.JSONEq(t, `{"end_time":"10:30"}`, edits[0].OldValues)
	assert.JSONEq(t, `{"end_time":"11:00"}`, edits[0].NewValues)
}

func TestUpdateMissingEntryWritesNoEdit(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	missing := newTestEntry(7, "2026-08-15", "09:00", "10:30", 90)
	missing.ID = 999
	edit := &TimeEntryEdit{
		TimeEntryID: 999,
		OldValues:   `{}`,
		NewValues:   `{}`,
		Timestamp:   time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC),
	}

	err := repo.UpdateTimeEntryWithEdit(ctx, missing, edit)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	// The transaction rolled back, so no orphan audit row exists.
	edits, err := repo.ListEditsForEntry(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestSoftDeleteTimeEntryWithEdit(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	entry := newTestEntry(7, "2026-08-15", "09:00", "10:30", 90)
	require.NoError(t, repo.CreateTimeEntry(ctx, entry))

	edit := &TimeEntryEdit{
		TimeEntryID: entry.ID,
		OldValues:   `{"is_deleted":false}`,
		NewValues:   `{"is_deleted":true}`,
		Timestamp:   time.Date(2026, 8, 15, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SoftDeleteTimeEntryWithEdit(ctx, entry, edit))

	// Row persists with the flag set.
	retrieved, err := repo.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.IsDeleted)

	// And leaves the date listing used for overlap checks.
	entries, err := repo.ListEntriesForEmployeeDate(ctx, 7, "2026-08-15")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchTimeEntries(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	taskID := int64(4)
	first := newTestEntry(7, "2026-08-14", "09:00", "10:00", 60)
	second := newTestEntry(7, "2026-08-15", "09:00", "10:00", 60)
	second.TaskID = &taskID
	third := newTestEntry(8, "2026-08-15", "09:00", "10:00", 60)
	require.NoError(t, repo.CreateTimeEntry(ctx, first))
	require.NoError(t, repo.CreateTimeEntry(ctx, second))
	require.NoError(t, repo.CreateTimeEntry(ctx, third))

	employeeID := int64(7)
	entries, err := repo.SearchTimeEntries(ctx, SearchOptions{EmployeeID: &employeeID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "2026-08-15", entries[0].Date)
	assert.Equal(t, "2026-08-14", entries[1].Date)

	entries, err = repo.SearchTimeEntries(ctx, SearchOptions{TaskID: &taskID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)

	from := "2026-08-15"
	entries, err = repo.SearchTimeEntries(ctx, SearchOptions{DateFrom: &from})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSearchTimeEntriesCreatedAfter(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	old := newTestEntry(7, "2026-08-14", "09:00", "10:00", 60)
	old.CreatedAt = time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	recent := newTestEntry(7, "2026-08-15", "09:00", "10:00", 60)
	recent.CreatedAt = time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateTimeEntry(ctx, old))
	require.NoError(t, repo.CreateTimeEntry(ctx, recent))

	cutoff := time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC)
	entries, err := repo.SearchTimeEntries(ctx, SearchOptions{CreatedAfter: &cutoff})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recent.ID, entries[0].ID)
}

func TestSumEntryMinutesForMonth(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-08-01", "09:00", "10:00", 60)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-08-20", "09:00", "11:00", 120)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(7, "2026-07-31", "09:00", "10:00", 60)))
	require.NoError(t, repo.CreateTimeEntry(ctx, newTestEntry(8, "2026-08-01", "09:00", "10:00", 60)))

	deleted := newTestEntry(7, "2026-08-02", "09:00", "10:00", 60)
	require.NoError(t, repo.CreateTimeEntry(ctx, deleted))
	require.NoError(t, repo.SoftDeleteTimeEntryWithEdit(ctx, deleted, &TimeEntryEdit{
		TimeEntryID: deleted.ID,
		OldValues:   `{"is_deleted":false}`,
		NewValues:   `{"is_deleted":true}`,
		Timestamp:   time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}))

	minutes, err := repo.SumEntryMinutesForMonth(ctx, 7, 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, 180, minutes)

	minutes, err = repo.SumEntryMinutesForMonth(ctx, 7, 2026, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)
}

func TestTaskLifecycle(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	task := &Task{Title: "Landing page", CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateTask(ctx, task))
	assert.Greater(t, task.ID, int64(0))

	require.NoError(t, repo.SoftDeleteTask(ctx, task.ID, now.Add(time.Hour)))

	retrieved, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.IsDeleted)
	require.NotNil(t, retrieved.DeletedAt)
}

func TestProjectMembershipUniqueness(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	project := &Project{Name: "Website", CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProject(ctx, project))

	membership := &ProjectMembership{ProjectID: project.ID, UserID: 7, AddedBy: 1, CreatedAt: now}
	require.NoError(t, repo.AddProjectMembership(ctx, membership))

	has, err := repo.HasProjectMembership(ctx, project.ID, 7)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasProjectMembership(ctx, project.ID, 8)
	require.NoError(t, err)
	assert.False(t, has)

	duplicate := &ProjectMembership{ProjectID: project.ID, UserID: 7, AddedBy: 1, CreatedAt: now}
	err = repo.AddProjectMembership(ctx, duplicate)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}

func TestUpsertEmployeeProfile(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	code := "EMP-007"
	profile := &EmployeeProfile{
		UserID:          7,
		HourlyRateToman: 100000,
		EmployeeCode:    &code,
		Role:            "developer",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.UpsertEmployeeProfile(ctx, profile))

	retrieved, err := repo.GetEmployeeProfile(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), retrieved.HourlyRateToman)
	require.NotNil(t, retrieved.EmployeeCode)
	assert.Equal(t, "EMP-007", *retrieved.EmployeeCode)

	// Upsert replaces the rate without creating a second row.
	profile.HourlyRateToman = 120000
	require.NoError(t, repo.UpsertEmployeeProfile(ctx, profile))

	retrieved, err = repo.GetEmployeeProfile(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), retrieved.HourlyRateToman)
}

func TestSettlements(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	latest, err := repo.LatestSettlementTime(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, latest)

	first := &Settlement{
		EmployeeID:  7,
		Year:        2026,
		Month:       8,
		AmountToman: 300000,
		Reference:   "ref-1",
		SettledAt:   time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}
	second := &Settlement{
		EmployeeID:  7,
		Year:        2026,
		Month:       8,
		AmountToman: 50000,
		Reference:   "ref-2",
		SettledAt:   time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.CreateSettlement(ctx, first))
	require.NoError(t, repo.CreateSettlement(ctx, second))

	total, err := repo.SumSettledForMonth(ctx, 7, 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(350000), total)

	total, err = repo.SumSettledForMonth(ctx, 7, 2026, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	latest, err = repo.LatestSettlementTime(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.SettledAt.Unix(), latest.Unix())

	settlements, err := repo.ListSettlements(ctx, 7, 2026, 8)
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, "ref-1", settlements[0].Reference)
	assert.Equal(t, "ref-2", settlements[1].Reference)
}

func TestProjectBudgets(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	project := &Project{Name: "Website", CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProject(ctx, project))

	budget := &ProjectMonthlyBudget{
		ProjectID:   project.ID,
		Year:        2026,
		Month:       8,
		BudgetToman: 5000000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.UpsertProjectBudget(ctx, budget))

	retrieved, err := repo.GetProjectBudget(ctx, project.ID, 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(5000000), retrieved.BudgetToman)

	budget.BudgetToman = 6000000
	require.NoError(t, repo.UpsertProjectBudget(ctx, budget))

	retrieved, err = repo.GetProjectBudget(ctx, project.ID, 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(6000000), retrieved.BudgetToman)

	_, err = repo.GetProjectBudget(ctx, project.ID, 2026, 9)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestListEntriesForProjectMonth(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	project := &Project{Name: "Website", CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProject(ctx, project))
	task := &Task{Title: "Landing page", ProjectID: &project.ID, CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateTask(ctx, task))
	other := &Task{Title: "Standalone", CreatedBy: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateTask(ctx, other))

	inProject := newTestEntry(7, "2026-08-10", "09:00", "10:00", 60)
	inProject.TaskID = &task.ID
	outOfMonth := newTestEntry(7, "2026-07-10", "09:00", "10:00", 60)
	outOfMonth.TaskID = &task.ID
	offProject := newTestEntry(7, "2026-08-10", "11:00", "12:00", 60)
	offProject.TaskID = &other.ID
	require.NoError(t, repo.CreateTimeEntry(ctx, inProject))
	require.NoError(t, repo.CreateTimeEntry(ctx, outOfMonth))
	require.NoError(t, repo.CreateTimeEntry(ctx, offProject))

	entries, err := repo.ListEntriesForProjectMonth(ctx, project.ID, 2026, 8)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inProject.ID, entries[0].ID)
}
