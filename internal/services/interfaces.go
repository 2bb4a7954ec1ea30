package services

import (
	"context"
	"time"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/repository/sqlite"
)

// CreateEntryParams carries the caller-supplied fields for a new time
// entry. EmployeeID is honored only for administrators logging on
// behalf of someone; everyone else logs for themselves.
type CreateEntryParams struct {
	EmployeeID   *int64
	TaskID       *int64
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	Description  string
	Source       domain.EntrySource
}

// UpdateEntryParams carries the changed fields for an entry update.
// Nil fields are left unchanged. Source is accepted but ignored: it is
// immutable after creation and attempts to change it are dropped, not
// rejected.
type UpdateEntryParams struct {
	TaskID       *int64
	Date         *time.Time
	StartMinutes *int
	EndMinutes   *int
	Description  *string
	Source       *domain.EntrySource
}

// EntryService owns the time entry lifecycle: creation, update, soft
// deletion and listing, with all policy checks applied.
type EntryService interface {
	Create(ctx context.Context, principal domain.Principal, params CreateEntryParams) (*domain.TimeEntry, error)
	Update(ctx context.Context, principal domain.Principal, entryID int64, params UpdateEntryParams) (*domain.TimeEntry, error)
	SoftDelete(ctx context.Context, principal domain.Principal, entryID int64) error
	Get(ctx context.Context, principal domain.Principal, entryID int64) (*domain.TimeEntry, error)
	List(ctx context.Context, principal domain.Principal, filter domain.EntryFilter) ([]*domain.TimeEntry, error)
}

// AuditService reads the append-only edit trail of a time entry.
type AuditService interface {
	ListForEntry(ctx context.Context, principal domain.Principal, entryID int64) ([]*domain.TimeEntryEdit, error)
}

// EligibilityService verifies that a task is usable and that the acting
// principal may log time against its project.
type EligibilityService interface {
	CheckTask(ctx context.Context, taskID int64) (*domain.Task, error)
	CheckMembership(ctx context.Context, principal domain.Principal, task *domain.Task) error
}

// SettlementService reconciles monthly income against prior settlements
// and records payment events for outstanding balances.
type SettlementService interface {
	ComputeIncome(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) (*domain.IncomeStatement, error)
	Settle(ctx context.Context, principal domain.Principal, employeeID int64) (*domain.IncomeStatement, *domain.Settlement, error)
}

// DayTotal is one day's aggregated minutes.
type DayTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// WeekTotal is one ISO week's aggregated minutes.
type WeekTotal struct {
	ISOYear int `json:"iso_year"`
	ISOWeek int `json:"iso_week"`
	Minutes int `json:"minutes"`
}

// MonthTotal is one calendar month's aggregated minutes.
type MonthTotal struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Minutes int `json:"minutes"`
}

// TaskPieSlice is one task's share of a month's logged minutes.
type TaskPieSlice struct {
	TaskID  *int64  `json:"task_id"`
	Label   string  `json:"label"`
	Minutes int     `json:"minutes"`
	Percent float64 `json:"percent"`
}

// BreakdownEntry is one entry inside a task breakdown.
type BreakdownEntry struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Minutes          int    `json:"minutes"`
	ShortDescription string `json:"short_description"`
	IsTaskDeleted    bool   `json:"is_task_deleted"`
}

// TaskBreakdownItem groups an employee's entries by task title snapshot.
type TaskBreakdownItem struct {
	TaskID       *int64           `json:"task_id"`
	Title        string           `json:"title"`
	TotalMinutes int              `json:"total_minutes"`
	Entries      []BreakdownEntry `json:"entries"`
}

// BudgetStatus compares a project's monthly budget against its
// computed spend.
type BudgetStatus struct {
	ProjectID      int64 `json:"project_id"`
	Year           int   `json:"year"`
	Month          int   `json:"month"`
	BudgetToman    int64 `json:"budget_toman"`
	Minutes        int   `json:"minutes"`
	SpentToman     int64 `json:"spent_toman"`
	RemainingToman int64 `json:"remaining_toman"`
}

// ReportingService aggregates logged minutes for admin reporting.
type ReportingService interface {
	DailyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]DayTotal, error)
	WeeklyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]WeekTotal, error)
	MonthlyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]MonthTotal, error)
	MonthlyTaskPie(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) ([]TaskPieSlice, error)
	TaskBreakdown(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]TaskBreakdownItem, error)
	ProjectBudgetStatus(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month) (*BudgetStatus, error)
}

// CatalogService manages the task/project catalog, memberships,
// employee profiles and budgets. Admin-only mutations.
type CatalogService interface {
	CreateTask(ctx context.Context, principal domain.Principal, title string, projectID *int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, principal domain.Principal, taskID int64) error
	CreateProject(ctx context.Context, principal domain.Principal, name string) (*domain.Project, error)
	DeleteProject(ctx context.Context, principal domain.Principal, projectID int64) error
	AddMember(ctx context.Context, principal domain.Principal, projectID, userID int64) (*domain.ProjectMembership, error)
	SetProfile(ctx context.Context, principal domain.Principal, profile domain.EmployeeProfile) error
	SetBudget(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month, budgetToman int64) error
}

// Container wires all services over one repository and clock.
type Container struct {
	Entries     EntryService
	Audit       AuditService
	Eligibility EligibilityService
	Settlements SettlementService
	Reporting   ReportingService
	Catalog     CatalogService
}

// NewContainer creates all services with their dependencies.
func NewContainer(repo sqlite.Repository, clk *clock.Clock) *Container {
	mapper := domain.NewMapper(clk.Location())
	eligibility := NewEligibilityService(repo, mapper)
	return &Container{
		Entries:     NewEntryService(repo, clk, mapper, eligibility),
		Audit:       NewAuditService(repo, mapper),
		Eligibility: eligibility,
		Settlements: NewSettlementService(repo, clk, mapper),
		Reporting:   NewReportingService(repo, clk, mapper),
		Catalog:     NewCatalogService(repo, clk, mapper),
	}
}
