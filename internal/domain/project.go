package domain

import "time"

// Project groups tasks for membership and billing purposes. Deletion
// is a soft flag so historical time entries keep their references.
type Project struct {
	ID        int64
	Name      string
	CreatedBy int64
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is a unit of work that time entries are logged against. A task
// optionally belongs to a project.
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

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.Title != ""
}

// ProjectMembership authorizes an employee to log time against tasks
// in a project. (project, user) pairs are unique.
type ProjectMembership struct {
	ID        int64
	ProjectID int64
	UserID    int64
	AddedBy   int64
	CreatedAt time.Time
}

// ProjectMonthlyBudget is a comparison target for a project's monthly
// spend. (project, year, month) triples are unique.
type ProjectMonthlyBudget struct {
	ID          int64
	ProjectID   int64
	Year        int
	Month       int
	BudgetToman int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
