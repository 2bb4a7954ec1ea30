package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/validation"
)

func TestCatalog_AdminOnly(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := container.Catalog.CreateTask(ctx, employee, "Landing page", nil)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	_, err = container.Catalog.CreateProject(ctx, employee, "Website")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	err = container.Catalog.SetProfile(ctx, employee, domain.EmployeeProfile{UserID: 7, HourlyRateToman: 1})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	err = container.Catalog.SetBudget(ctx, employee, 1, 2026, time.August, 1000)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
}

func TestCreateTask_TitleValidation(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := container.Catalog.CreateTask(ctx, adminUser, "   ", nil)
	assert.True(t, validation.IsValidationError(err))

	_, err = container.Catalog.CreateTask(ctx, adminUser, strings.Repeat("a", 151), nil)
	assert.True(t, validation.IsValidationError(err))

	// Titles are trimmed before storage.
	task, err := container.Catalog.CreateTask(ctx, adminUser, "  Landing page  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Landing page", task.Title)
}

func TestCreateTask_ArchivedProjectRejected(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	project, err := container.Catalog.CreateProject(ctx, adminUser, "Website")
	require.NoError(t, err)
	require.NoError(t, container.Catalog.DeleteProject(ctx, adminUser, project.ID))

	_, err = container.Catalog.CreateTask(ctx, adminUser, "Landing page", &project.ID)
	assert.True(t, validation.IsValidationError(err))
}

func TestAddMember(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	project, err := container.Catalog.CreateProject(ctx, adminUser, "Website")
	require.NoError(t, err)

	membership, err := container.Catalog.AddMember(ctx, adminUser, project.ID, employee.UserID)
	require.NoError(t, err)
	assert.Equal(t, adminUser.UserID, membership.AddedBy)

	// Duplicate grants are rejected.
	_, err = container.Catalog.AddMember(ctx, adminUser, project.ID, employee.UserID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	// Archived projects take no new members.
	require.NoError(t, container.Catalog.DeleteProject(ctx, adminUser, project.ID))
	_, err = container.Catalog.AddMember(ctx, adminUser, project.ID, coworker.UserID)
	assert.True(t, validation.IsValidationError(err))
}

func TestSetProfile_Validation(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	err := container.Catalog.SetProfile(ctx, adminUser, domain.EmployeeProfile{
		UserID:          0,
		HourlyRateToman: 100000,
	})
	assert.True(t, validation.IsValidationError(err))

	err = container.Catalog.SetProfile(ctx, adminUser, domain.EmployeeProfile{
		UserID:          7,
		HourlyRateToman: -1,
	})
	assert.True(t, validation.IsValidationError(err))
}

func TestSetBudget_Validation(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	project, err := container.Catalog.CreateProject(ctx, adminUser, "Website")
	require.NoError(t, err)

	err = container.Catalog.SetBudget(ctx, adminUser, project.ID, 2026, time.August, -1)
	assert.True(t, validation.IsValidationError(err))

	err = container.Catalog.SetBudget(ctx, adminUser, 999, 2026, time.August, 1000)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
