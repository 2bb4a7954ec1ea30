package services

import (
	"context"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/validation"
)

// eligibilityServiceImpl implements the EligibilityService interface
type eligibilityServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewEligibilityService creates a new EligibilityService instance
func NewEligibilityService(repo sqlite.Repository, mapper *domain.Mapper) EligibilityService {
	return &eligibilityServiceImpl{repo: repo, mapper: mapper}
}

// CheckTask verifies that the task exists, is not soft-deleted, and
// that its parent project (if any) is not archived. Returns the task
// so callers can snapshot its title.
func (e *eligibilityServiceImpl) CheckTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	dbTask, err := e.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task := e.mapper.TaskFromDatabase(*dbTask)

	if task.IsDeleted {
		validationError := validation.NewValidationError()
		validationError.AddPolicyError("task", taskID, "task has been deleted")
		return nil, validationError
	}

	if task.ProjectID != nil {
		dbProject, err := e.repo.GetProject(ctx, *task.ProjectID)
		if err != nil {
			return nil, err
		}
		if dbProject.IsDeleted {
			validationError := validation.NewValidationError()
			validationError.AddPolicyError("task", taskID, "project has been archived")
			return nil, validationError
		}
	}

	return &task, nil
}

// CheckMembership verifies that the principal may log time against the
// task's project. Administrators bypass the check; tasks without a
// project require no membership.
func (e *eligibilityServiceImpl) CheckMembership(ctx context.Context, principal domain.Principal, task *domain.Task) error {
	if principal.IsAdmin {
		return nil
	}
	if task == nil || task.ProjectID == nil {
		return nil
	}

	member, err := e.repo.HasProjectMembership(ctx, *task.ProjectID, principal.UserID)
	if err != nil {
		return err
	}
	if !member {
		return errors.NewPermissionError("log time", "project")
	}
	return nil
}
