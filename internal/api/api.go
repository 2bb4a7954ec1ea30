package api

import (
	"context"
	"time"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/services"
)

// API defines the interface for all timesheet operations. Every call
// names the acting principal; authorization happens in the service
// layer behind it.
type API interface {
	// Time entry lifecycle
	CreateEntry(ctx context.Context, principal domain.Principal, params services.CreateEntryParams) (*domain.TimeEntry, error)
	UpdateEntry(ctx context.Context, principal domain.Principal, entryID int64, params services.UpdateEntryParams) (*domain.TimeEntry, error)
	DeleteEntry(ctx context.Context, principal domain.Principal, entryID int64) error
	GetEntry(ctx context.Context, principal domain.Principal, entryID int64) (*domain.TimeEntry, error)
	ListEntries(ctx context.Context, principal domain.Principal, filter domain.EntryFilter) ([]*domain.TimeEntry, error)

	// Audit trail
	ListAudit(ctx context.Context, principal domain.Principal, entryID int64) ([]*domain.TimeEntryEdit, error)

	// Income and settlement
	ComputeIncome(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) (*domain.IncomeStatement, error)
	Settle(ctx context.Context, principal domain.Principal, employeeID int64) (*domain.IncomeStatement, *domain.Settlement, error)

	// Reporting
	DailyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.DayTotal, error)
	WeeklyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.WeekTotal, error)
	MonthlyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.MonthTotal, error)
	MonthlyTaskPie(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) ([]services.TaskPieSlice, error)
	TaskBreakdown(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.TaskBreakdownItem, error)
	ProjectBudgetStatus(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month) (*services.BudgetStatus, error)

	// Catalog management
	CreateTask(ctx context.Context, principal domain.Principal, title string, projectID *int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, principal domain.Principal, taskID int64) error
	CreateProject(ctx context.Context, principal domain.Principal, name string) (*domain.Project, error)
	DeleteProject(ctx context.Context, principal domain.Principal, projectID int64) error
	AddMember(ctx context.Context, principal domain.Principal, projectID, userID int64) (*domain.ProjectMembership, error)
	SetProfile(ctx context.Context, principal domain.Principal, profile domain.EmployeeProfile) error
	SetBudget(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month, budgetToman int64) error
}

type apiImpl struct {
	services *services.Container
}

// New creates a new API instance over a repository and clock.
func New(repo sqlite.Repository, clk *clock.Clock) API {
	return &apiImpl{services: services.NewContainer(repo, clk)}
}

func (a *apiImpl) CreateEntry(ctx context.Context, principal domain.Principal, params services.CreateEntryParams) (*domain.TimeEntry, error) {
	return a.services.Entries.Create(ctx, principal, params)
}

func (a *apiImpl) UpdateEntry(ctx context.Context, principal domain.Principal, entryID int64, params services.UpdateEntryParams) (*domain.TimeEntry, error) {
	return a.services.Entries.Update(ctx, principal, entryID, params)
}

func (a *apiImpl) DeleteEntry(ctx context.Context, principal domain.Principal, entryID int64) error {
	return a.services.Entries.SoftDelete(ctx, principal, entryID)
}

func (a *apiImpl) GetEntry(ctx context.Context, principal domain.Principal, entryID int64) (*domain.TimeEntry, error) {
	return a.services.Entries.Get(ctx, principal, entryID)
}

func (a *apiImpl) ListEntries(ctx context.Context, principal domain.Principal, filter domain.EntryFilter) ([]*domain.TimeEntry, error) {
	return a.services.Entries.List(ctx, principal, filter)
}

func (a *apiImpl) ListAudit(ctx context.Context, principal domain.Principal, entryID int64) ([]*domain.TimeEntryEdit, error) {
	return a.services.Audit.ListForEntry(ctx, principal, entryID)
}

func (a *apiImpl) ComputeIncome(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) (*domain.IncomeStatement, error) {
	return a.services.Settlements.ComputeIncome(ctx, principal, employeeID, year, month)
}

func (a *apiImpl) Settle(ctx context.Context, principal domain.Principal, employeeID int64) (*domain.IncomeStatement, *domain.Settlement, error) {
	return a.services.Settlements.Settle(ctx, principal, employeeID)
}

func (a *apiImpl) DailyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.DayTotal, error) {
	return a.services.Reporting.DailyTotals(ctx, principal, employeeID, from, to)
}

func (a *apiImpl) WeeklyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.WeekTotal, error) {
	return a.services.Reporting.WeeklyTotals(ctx, principal, employeeID, from, to)
}

func (a *apiImpl) MonthlyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.MonthTotal, error) {
	return a.services.Reporting.MonthlyTotals(ctx, principal, employeeID, from, to)
}

func (a *apiImpl) MonthlyTaskPie(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) ([]services.TaskPieSlice, error) {
	return a.services.Reporting.MonthlyTaskPie(ctx, principal, employeeID, year, month)
}

func (a *apiImpl) TaskBreakdown(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]services.TaskBreakdownItem, error) {
	return a.services.Reporting.TaskBreakdown(ctx, principal, employeeID, from, to)
}

func (a *apiImpl) ProjectBudgetStatus(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month) (*services.BudgetStatus, error) {
	return a.services.Reporting.ProjectBudgetStatus(ctx, principal, projectID, year, month)
}

func (a *apiImpl) CreateTask(ctx context.Context, principal domain.Principal, title string, projectID *int64) (*domain.Task, error) {
	return a.services.Catalog.CreateTask(ctx, principal, title, projectID)
}

func (a *apiImpl) DeleteTask(ctx context.Context, principal domain.Principal, taskID int64) error {
	return a.services.Catalog.DeleteTask(ctx, principal, taskID)
}

func (a *apiImpl) CreateProject(ctx context.Context, principal domain.Principal, name string) (*domain.Project, error) {
	return a.services.Catalog.CreateProject(ctx, principal, name)
}

func (a *apiImpl) DeleteProject(ctx context.Context, principal domain.Principal, projectID int64) error {
	return a.services.Catalog.DeleteProject(ctx, principal, projectID)
}

func (a *apiImpl) AddMember(ctx context.Context, principal domain.Principal, projectID, userID int64) (*domain.ProjectMembership, error) {
	return a.services.Catalog.AddMember(ctx, principal, projectID, userID)
}

func (a *apiImpl) SetProfile(ctx context.Context, principal domain.Principal, profile domain.EmployeeProfile) error {
	return a.services.Catalog.SetProfile(ctx, principal, profile)
}

func (a *apiImpl) SetBudget(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month, budgetToman int64) error {
	return a.services.Catalog.SetBudget(ctx, principal, projectID, year, month, budgetToman)
}
