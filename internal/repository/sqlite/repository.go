package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	ListEntriesForEmployeeDate(ctx context.Context, employeeID int64, date string) ([]*TimeEntry, error)
	SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error)
	UpdateTimeEntryWithEdit(ctx context.Context, entry *TimeEntry, edit *TimeEntryEdit) error
	SoftDeleteTimeEntryWithEdit(ctx context.Context, entry *TimeEntry, edit *TimeEntryEdit) error
	SumEntryMinutesForMonth(ctx context.Context, employeeID int64, year, month int) (int, error)
	ListEntriesForProjectMonth(ctx context.Context, projectID int64, year, month int) ([]*TimeEntry, error)

	// Audit trail
	ListEditsForEntry(ctx context.Context, entryID int64) ([]*TimeEntryEdit, error)

	// Tasks and projects
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	SoftDeleteTask(ctx context.Context, id int64, deletedAt time.Time) error
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	SoftDeleteProject(ctx context.Context, id int64, deletedAt time.Time) error

	// Memberships and profiles
	AddProjectMembership(ctx context.Context, membership *ProjectMembership) error
	HasProjectMembership(ctx context.Context, projectID, userID int64) (bool, error)
	UpsertEmployeeProfile(ctx context.Context, profile *EmployeeProfile) error
	GetEmployeeProfile(ctx context.Context, userID int64) (*EmployeeProfile, error)

	// Settlements
	CreateSettlement(ctx context.Context, settlement *Settlement) error
	SumSettledForMonth(ctx context.Context, employeeID int64, year, month int) (int64, error)
	LatestSettlementTime(ctx context.Context, employeeID int64) (*time.Time, error)
	ListSettlements(ctx context.Context, employeeID int64, year, month int) ([]*Settlement, error)

	// Budgets
	UpsertProjectBudget(ctx context.Context, budget *ProjectMonthlyBudget) error
	GetProjectBudget(ctx context.Context, projectID int64, year, month int) (*ProjectMonthlyBudget, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// Serialize writers through one connection; SQLite allows a single
	// writer anyway and this avoids spurious SQLITE_BUSY failures.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const timeEntryColumns = `id, employee_id, task_id, task_title_snapshot, date, start_time, end_time,
	duration_minutes, short_description, source, is_deleted, edited_by, created_at, updated_at`

// CreateTimeEntry inserts a new time entry and assigns its ID.
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	INSERT INTO time_entries (employee_id, task_id, task_title_snapshot, date, start_time, end_time,
		duration_minutes, short_description, source, is_deleted, edited_by, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		entry.EmployeeID, entry.TaskID, entry.TaskTitleSnapshot, entry.Date,
		entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.ShortDescription,
		entry.Source, entry.IsDeleted, entry.EditedBy,
		FormatTimeForDB(entry.CreatedAt), FormatTimeForDB(entry.UpdatedAt))
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// GetTimeEntry retrieves a time entry by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM time_entries WHERE id = ?`, timeEntryColumns)
	return QuerySingle(ctx, r.db, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// ListEntriesForEmployeeDate retrieves all non-deleted entries for one
// employee on one calendar date, the working set for overlap checks.
func (r *SQLiteRepository) ListEntriesForEmployeeDate(ctx context.Context, employeeID int64, date string) ([]*TimeEntry, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM time_entries
	WHERE employee_id = ? AND date = ? AND is_deleted = 0
	ORDER BY start_time ASC`, timeEntryColumns)

	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", employeeID, date)
}

// SearchTimeEntries searches for time entries based on the provided options
func (r *SQLiteRepository) SearchTimeEntries(ctx context.Context, opts SearchOptions) ([]*TimeEntry, error) {
	var conditions []string
	var args []interface{}

	if !opts.IncludeDeleted {
		conditions = append(conditions, "is_deleted = 0")
	}
	if opts.EmployeeID != nil {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, *opts.EmployeeID)
	}
	if opts.DateFrom != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *opts.DateFrom)
	}
	if opts.DateTo != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *opts.DateTo)
	}
	if opts.TaskID != nil {
		conditions = append(conditions, "task_id = ?")
		args = append(args, *opts.TaskID)
	}
	if opts.CreatedAfter != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, FormatTimeForDB(*opts.CreatedAfter))
	}

	query := fmt.Sprintf(`SELECT %s FROM time_entries`, timeEntryColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, start_time DESC"

	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", args...)
}

// UpdateTimeEntryWithEdit updates an entry and appends its audit row in
// one transaction. A concurrent writer never observes the entry without
// its audit record.
func (r *SQLiteRepository) UpdateTimeEntryWithEdit(ctx context.Context, entry *TimeEntry, edit *TimeEntryEdit) error {
	return ExecuteInTx(ctx, r.db, "update time entry", func(tx *sql.Tx) error {
		query := `
		UPDATE time_entries
		SET task_id = ?, task_title_snapshot = ?, date = ?, start_time = ?, end_time = ?,
			duration_minutes = ?, short_description = ?, edited_by = ?, updated_at = ?
		WHERE id = ?`

		err := ExecuteWithRowsAffected(ctx, tx, query, "time entry", fmt.Sprintf("%d", entry.ID),
			entry.TaskID, entry.TaskTitleSnapshot, entry.Date, entry.StartTime, entry.EndTime,
			entry.DurationMinutes, entry.ShortDescription, entry.EditedBy,
			FormatTimeForDB(entry.UpdatedAt), entry.ID)
		if err != nil {
			return err
		}

		return r.insertEdit(ctx, tx, edit)
	})
}

// SoftDeleteTimeEntryWithEdit flags an entry deleted and appends the
// is_deleted transition audit row in one transaction. The row persists.
func (r *SQLiteRepository) SoftDeleteTimeEntryWithEdit(ctx context.Context, entry *TimeEntry, edit *TimeEntryEdit) error {
	return ExecuteInTx(ctx, r.db, "soft delete time entry", func(tx *sql.Tx) error {
		query := `
		UPDATE time_entries
		SET is_deleted = 1, edited_by = ?, updated_at = ?
		WHERE id = ?`

		err := ExecuteWithRowsAffected(ctx, tx, query, "time entry", fmt.Sprintf("%d", entry.ID),
			entry.EditedBy, FormatTimeForDB(entry.UpdatedAt), entry.ID)
		if err != nil {
			return err
		}

		return r.insertEdit(ctx, tx, edit)
	})
}

func (r *SQLiteRepository) insertEdit(ctx context.Context, tx *sql.Tx, edit *TimeEntryEdit) error {
	query := `
	INSERT INTO time_entry_edits (time_entry_id, editor_id, old_values, new_values, timestamp)
	VALUES (?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, tx, query,
		edit.TimeEntryID, edit.EditorID, edit.OldValues, edit.NewValues,
		FormatTimeForDB(edit.Timestamp))
	if err != nil {
		return err
	}

	edit.ID = id
	return nil
}

// SumEntryMinutesForMonth sums non-deleted entry durations for an
// employee within one calendar month.
func (r *SQLiteRepository) SumEntryMinutesForMonth(ctx context.Context, employeeID int64, year, month int) (int, error) {
	query := `
	SELECT COALESCE(SUM(duration_minutes), 0)
	FROM time_entries
	WHERE employee_id = ? AND date LIKE ? AND is_deleted = 0`

	var minutes int
	err := r.db.QueryRowContext(ctx, query, employeeID, monthPrefix(year, month)+"%").Scan(&minutes)
	if err != nil {
		return 0, HandleDatabaseError("sum entry minutes", err)
	}
	return minutes, nil
}

// ListEntriesForProjectMonth retrieves all non-deleted entries logged
// against a project's tasks within one calendar month.
func (r *SQLiteRepository) ListEntriesForProjectMonth(ctx context.Context, projectID int64, year, month int) ([]*TimeEntry, error) {
	query := `
	SELECT time_entries.id, employee_id, task_id, task_title_snapshot, date, start_time, end_time,
		duration_minutes, short_description, source, time_entries.is_deleted, edited_by,
		time_entries.created_at, time_entries.updated_at
	FROM time_entries
	JOIN tasks ON time_entries.task_id = tasks.id
	WHERE tasks.project_id = ? AND date LIKE ? AND time_entries.is_deleted = 0
	ORDER BY date ASC, start_time ASC`

	return QueryMultiple(ctx, r.db, query, ScanTimeEntries, "time entries", projectID, monthPrefix(year, month)+"%")
}

// ListEditsForEntry retrieves an entry's audit records, most recent first.
func (r *SQLiteRepository) ListEditsForEntry(ctx context.Context, entryID int64) ([]*TimeEntryEdit, error) {
	query := `
	SELECT id, time_entry_id, editor_id, old_values, new_values, timestamp
	FROM time_entry_edits
	WHERE time_entry_id = ?
	ORDER BY timestamp DESC, id DESC`

	return QueryMultiple(ctx, r.db, query, ScanTimeEntryEdits, "time entry edits", entryID)
}

const taskColumns = `id, title, project_id, created_by, is_deleted, deleted_at, created_at, updated_at`

// CreateTask creates a new task
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	query := `
	INSERT INTO tasks (title, project_id, created_by, is_deleted, deleted_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		task.Title, task.ProjectID, task.CreatedBy, task.IsDeleted,
		FormatTimePtrForDB(task.DeletedAt), FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = ?`, taskColumns)
	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// SoftDeleteTask flags a task deleted. The row and all historical
// references to it remain.
func (r *SQLiteRepository) SoftDeleteTask(ctx context.Context, id int64, deletedAt time.Time) error {
	query := `UPDATE tasks SET is_deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", id),
		FormatTimeForDB(deletedAt), FormatTimeForDB(deletedAt), id)
}

const projectColumns = `id, name, created_by, is_deleted, deleted_at, created_at, updated_at`

// CreateProject creates a new project
func (r *SQLiteRepository) CreateProject(ctx context.Context, project *Project) error {
	query := `
	INSERT INTO projects (name, created_by, is_deleted, deleted_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		project.Name, project.CreatedBy, project.IsDeleted,
		FormatTimePtrForDB(project.DeletedAt), FormatTimeForDB(project.CreatedAt), FormatTimeForDB(project.UpdatedAt))
	if err != nil {
		return err
	}
	project.ID = id
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = ?`, projectColumns)
	return QuerySingle(ctx, r.db, query, ScanProject, "project", fmt.Sprintf("%d", id), id)
}

// SoftDeleteProject flags a project deleted (archived).
func (r *SQLiteRepository) SoftDeleteProject(ctx context.Context, id int64, deletedAt time.Time) error {
	query := `UPDATE projects SET is_deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "project", fmt.Sprintf("%d", id),
		FormatTimeForDB(deletedAt), FormatTimeForDB(deletedAt), id)
}

// AddProjectMembership grants an employee access to a project. The
// (project, user) pair is unique.
func (r *SQLiteRepository) AddProjectMembership(ctx context.Context, membership *ProjectMembership) error {
	query := `
	INSERT INTO project_memberships (project_id, user_id, added_by, created_at)
	VALUES (?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		membership.ProjectID, membership.UserID, membership.AddedBy, FormatTimeForDB(membership.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewValidationError("employee is already a member of this project", err)
		}
		return err
	}
	membership.ID = id
	return nil
}

// HasProjectMembership reports whether an employee holds a membership
// for the project.
func (r *SQLiteRepository) HasProjectMembership(ctx context.Context, projectID, userID int64) (bool, error) {
	query := `SELECT COUNT(1) FROM project_memberships WHERE project_id = ? AND user_id = ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(&count)
	if err != nil {
		return false, HandleDatabaseError("check project membership", err)
	}
	return count > 0, nil
}

// UpsertEmployeeProfile inserts or updates the profile keyed by user.
func (r *SQLiteRepository) UpsertEmployeeProfile(ctx context.Context, profile *EmployeeProfile) error {
	query := `
	INSERT INTO employee_profiles (user_id, hourly_rate_toman, employee_code, phone, role, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		hourly_rate_toman = excluded.hourly_rate_toman,
		employee_code = excluded.employee_code,
		phone = excluded.phone,
		role = excluded.role,
		updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.HourlyRateToman, profile.EmployeeCode, profile.Phone,
		profile.Role, FormatTimeForDB(profile.CreatedAt), FormatTimeForDB(profile.UpdatedAt))
	if err != nil {
		return HandleDatabaseError("upsert employee profile", err)
	}
	return nil
}

// GetEmployeeProfile retrieves a profile by owning user ID.
func (r *SQLiteRepository) GetEmployeeProfile(ctx context.Context, userID int64) (*EmployeeProfile, error) {
	query := `
	SELECT id, user_id, hourly_rate_toman, employee_code, phone, role, created_at, updated_at
	FROM employee_profiles
	WHERE user_id = ?`

	return QuerySingle(ctx, r.db, query, ScanEmployeeProfile, "employee profile", fmt.Sprintf("%d", userID), userID)
}

// CreateSettlement records one payment event.
func (r *SQLiteRepository) CreateSettlement(ctx context.Context, settlement *Settlement) error {
	query := `
	INSERT INTO settlements (employee_id, year, month, amount_toman, reference, settled_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		settlement.EmployeeID, settlement.Year, settlement.Month, settlement.AmountToman,
		settlement.Reference, FormatTimeForDB(settlement.SettledAt))
	if err != nil {
		return err
	}
	settlement.ID = id
	return nil
}

// SumSettledForMonth sums prior settlement amounts for the period.
func (r *SQLiteRepository) SumSettledForMonth(ctx context.Context, employeeID int64, year, month int) (int64, error) {
	query := `
	SELECT COALESCE(SUM(amount_toman), 0)
	FROM settlements
	WHERE employee_id = ? AND year = ? AND month = ?`

	var total int64
	err := r.db.QueryRowContext(ctx, query, employeeID, year, month).Scan(&total)
	if err != nil {
		return 0, HandleDatabaseError("sum settlements", err)
	}
	return total, nil
}

// LatestSettlementTime returns the settled_at of the employee's most
// recent settlement, or nil when none exist. This drives the entry
// visibility cutoff.
func (r *SQLiteRepository) LatestSettlementTime(ctx context.Context, employeeID int64) (*time.Time, error) {
	query := `SELECT MAX(settled_at) FROM settlements WHERE employee_id = ?`

	var raw *string
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(&raw)
	if err != nil {
		return nil, HandleDatabaseError("latest settlement", err)
	}

	t, err := ParseTimePtrFromDB(raw)
	if err != nil {
		return nil, HandleDatabaseError("parse latest settlement time", err)
	}
	return t, nil
}

// ListSettlements retrieves settlements for an employee and period.
func (r *SQLiteRepository) ListSettlements(ctx context.Context, employeeID int64, year, month int) ([]*Settlement, error) {
	query := `
	SELECT id, employee_id, year, month, amount_toman, reference, settled_at
	FROM settlements
	WHERE employee_id = ? AND year = ? AND month = ?
	ORDER BY settled_at ASC`

	return QueryMultiple(ctx, r.db, query, ScanSettlements, "settlements", employeeID, year, month)
}

// UpsertProjectBudget inserts or updates the budget keyed by
// (project, year, month).
func (r *SQLiteRepository) UpsertProjectBudget(ctx context.Context, budget *ProjectMonthlyBudget) error {
	query := `
	INSERT INTO project_monthly_budgets (project_id, year, month, budget_toman, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(project_id, year, month) DO UPDATE SET
		budget_toman = excluded.budget_toman,
		updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		budget.ProjectID, budget.Year, budget.Month, budget.BudgetToman,
		FormatTimeForDB(budget.CreatedAt), FormatTimeForDB(budget.UpdatedAt))
	if err != nil {
		return HandleDatabaseError("upsert project budget", err)
	}
	return nil
}

// GetProjectBudget retrieves the budget for one (project, year, month).
func (r *SQLiteRepository) GetProjectBudget(ctx context.Context, projectID int64, year, month int) (*ProjectMonthlyBudget, error) {
	query := `
	SELECT id, project_id, year, month, budget_toman, created_at, updated_at
	FROM project_monthly_budgets
	WHERE project_id = ? AND year = ? AND month = ?`

	identifier := fmt.Sprintf("%d/%04d-%02d", projectID, year, month)
	return QuerySingle(ctx, r.db, query, ScanProjectMonthlyBudget, "project budget", identifier, projectID, year, month)
}

// monthPrefix builds the "YYYY-MM-" date prefix for month-scoped scans.
func monthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

// isUniqueViolation reports whether the error is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
