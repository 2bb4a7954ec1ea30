package services

import (
	"context"
	"time"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/validation"
)

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	repo      sqlite.Repository
	clock     *clock.Clock
	mapper    *domain.Mapper
	validator *validation.TaskValidator
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(repo sqlite.Repository, clk *clock.Clock, mapper *domain.Mapper) CatalogService {
	return &catalogServiceImpl{
		repo:      repo,
		clock:     clk,
		mapper:    mapper,
		validator: validation.NewTaskValidator(),
	}
}

func requireAdmin(principal domain.Principal, operation, resource string) error {
	if principal.IsAdmin {
		return nil
	}
	return errors.NewPermissionError(operation, resource)
}

// CreateTask creates a task, optionally attached to a project.
func (c *catalogServiceImpl) CreateTask(ctx context.Context, principal domain.Principal, title string, projectID *int64) (*domain.Task, error) {
	if err := requireAdmin(principal, "create", "task"); err != nil {
		return nil, err
	}

	title = c.validator.CleanTitle(title)
	if err := c.validator.ValidateTitle("title", title); err != nil {
		return nil, err
	}

	if projectID != nil {
		dbProject, err := c.repo.GetProject(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		if dbProject.IsDeleted {
			validationError := validation.NewValidationError()
			validationError.AddPolicyError("project", *projectID, "project has been archived")
			return nil, validationError
		}
	}

	now := c.clock.Now()
	task := domain.Task{
		Title:     title,
		ProjectID: projectID,
		CreatedBy: principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbTask := c.mapper.TaskToDatabase(task)
	if err := c.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}
	task.ID = dbTask.ID
	return &task, nil
}

// DeleteTask soft-deletes a task. Existing time entries keep their
// title snapshot and stay billable.
func (c *catalogServiceImpl) DeleteTask(ctx context.Context, principal domain.Principal, taskID int64) error {
	if err := requireAdmin(principal, "delete", "task"); err != nil {
		return err
	}
	if _, err := c.repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	return c.repo.SoftDeleteTask(ctx, taskID, c.clock.Now())
}

// CreateProject creates a project.
func (c *catalogServiceImpl) CreateProject(ctx context.Context, principal domain.Principal, name string) (*domain.Project, error) {
	if err := requireAdmin(principal, "create", "project"); err != nil {
		return nil, err
	}

	name = c.validator.CleanTitle(name)
	if err := c.validator.ValidateTitle("name", name); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	project := domain.Project{
		Name:      name,
		CreatedBy: principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbProject := c.mapper.ProjectToDatabase(project)
	if err := c.repo.CreateProject(ctx, &dbProject); err != nil {
		return nil, err
	}
	project.ID = dbProject.ID
	return &project, nil
}

// DeleteProject archives a project. Its tasks become ineligible for new
// time entries.
func (c *catalogServiceImpl) DeleteProject(ctx context.Context, principal domain.Principal, projectID int64) error {
	if err := requireAdmin(principal, "delete", "project"); err != nil {
		return err
	}
	if _, err := c.repo.GetProject(ctx, projectID); err != nil {
		return err
	}
	return c.repo.SoftDeleteProject(ctx, projectID, c.clock.Now())
}

// AddMember grants a user membership of a project. Duplicate grants are
// rejected by the storage layer's uniqueness constraint.
func (c *catalogServiceImpl) AddMember(ctx context.Context, principal domain.Principal, projectID, userID int64) (*domain.ProjectMembership, error) {
	if err := requireAdmin(principal, "add member", "project"); err != nil {
		return nil, err
	}

	dbProject, err := c.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if dbProject.IsDeleted {
		validationError := validation.NewValidationError()
		validationError.AddPolicyError("project", projectID, "project has been archived")
		return nil, validationError
	}

	membership := domain.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		AddedBy:   principal.UserID,
		CreatedAt: c.clock.Now(),
	}

	dbMembership := sqlite.ProjectMembership{
		ProjectID: membership.ProjectID,
		UserID:    membership.UserID,
		AddedBy:   membership.AddedBy,
		CreatedAt: membership.CreatedAt,
	}
	if err := c.repo.AddProjectMembership(ctx, &dbMembership); err != nil {
		return nil, err
	}
	membership.ID = dbMembership.ID
	return &membership, nil
}

// SetProfile creates or replaces an employee's billing profile.
func (c *catalogServiceImpl) SetProfile(ctx context.Context, principal domain.Principal, profile domain.EmployeeProfile) error {
	if err := requireAdmin(principal, "set profile", "employee"); err != nil {
		return err
	}

	validationError := validation.NewValidationError()
	if profile.UserID <= 0 {
		validationError.AddInvalidValueError("user_id", profile.UserID, "must be a positive integer")
	}
	if profile.HourlyRateToman < 0 {
		validationError.AddInvalidValueError("hourly_rate_toman", profile.HourlyRateToman, "must not be negative")
	}
	if validationError.HasErrors() {
		return validationError
	}

	now := c.clock.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	dbProfile := c.mapper.ProfileToDatabase(profile)
	return c.repo.UpsertEmployeeProfile(ctx, &dbProfile)
}

// SetBudget creates or replaces a project's budget for one month.
func (c *catalogServiceImpl) SetBudget(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month, budgetToman int64) error {
	if err := requireAdmin(principal, "set budget", "project"); err != nil {
		return err
	}

	validationError := validation.NewValidationError()
	if budgetToman < 0 {
		validationError.AddInvalidValueError("budget_toman", budgetToman, "must not be negative")
	}
	if validationError.HasErrors() {
		return validationError
	}

	if _, err := c.repo.GetProject(ctx, projectID); err != nil {
		return err
	}

	now := c.clock.Now()
	budget := sqlite.ProjectMonthlyBudget{
		ProjectID:   projectID,
		Year:        year,
		Month:       int(month),
		BudgetToman: budgetToman,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return c.repo.UpsertProjectBudget(ctx, &budget)
}
