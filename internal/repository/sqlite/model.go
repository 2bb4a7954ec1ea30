package sqlite

import "time"

// TimeEntry is the storage shape of a logged work interval. Dates are
// stored as "YYYY-MM-DD" and wall-clock times as "HH:MM" so overlap
// queries can compare them lexically.
type TimeEntry struct {
	ID                int64
	EmployeeID        int64
	TaskID            *int64 // NULL when the task was removed
	TaskTitleSnapshot string
	Date              string
	StartTime         string
	EndTime           string
	DurationMinutes   int
	ShortDescription  *string
	Source            string
	IsDeleted         bool
	EditedBy          *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TimeEntryEdit is one append-only audit row. Snapshots are stored as
// JSON documents.
type TimeEntryEdit struct {
	ID          int64
	TimeEntryID int64
	EditorID    *int64
	OldValues   string
	NewValues   string
	Timestamp   time.Time
}

// Task is the storage shape of a task.
type Task struct {
	ID        int64
	Title     string
	ProjectID *int64
	CreatedBy int64
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project is the storage shape of a project.
type Project struct {
	ID        int64
	Name      string
	CreatedBy int64
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectMembership links an employee to a project. (project_id,
// user_id) pairs are unique.
type ProjectMembership struct {
	ID        int64
	ProjectID int64
	UserID    int64
	AddedBy   int64
	CreatedAt time.Time
}

// EmployeeProfile holds per-employee billing attributes.
type EmployeeProfile struct {
	ID              int64
	UserID          int64
	HourlyRateToman int64
	EmployeeCode    *string
	Phone           *string
	Role            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Settlement is one payment event row. (employee_id, year, month) is
// deliberately not unique: partial payments accumulate.
type Settlement struct {
	ID          int64
	EmployeeID  int64
	Year        int
	Month       int
	AmountToman int64
	Reference   string
	SettledAt   time.Time
}

// ProjectMonthlyBudget is a per-(project, year, month) budget row.
type ProjectMonthlyBudget struct {
	ID          int64
	ProjectID   int64
	Year        int
	Month       int
	BudgetToman int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchOptions contains all possible time entry search parameters
type SearchOptions struct {
	EmployeeID     *int64
	DateFrom       *string
	DateTo         *string
	TaskID         *int64
	CreatedAfter   *time.Time
	IncludeDeleted bool
}
