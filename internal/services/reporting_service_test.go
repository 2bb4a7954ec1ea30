package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/errors"
)

func TestReporting_AdminOnly(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	from := day(t, "2026-08-01")
	to := day(t, "2026-08-31")

	_, err := container.Reporting.DailyTotals(ctx, employee, employee.UserID, from, to)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	_, err = container.Reporting.MonthlyTaskPie(ctx, employee, employee.UserID, 2026, time.August)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
}

func TestDailyTotals(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	logMinutes(t, container, employee.UserID, "2026-08-10", 9*60, 10*60)
	logMinutes(t, container, employee.UserID, "2026-08-10", 11*60, 12*60)
	logMinutes(t, container, employee.UserID, "2026-08-12", 9*60, 9*60+30)
	logMinutes(t, container, coworker.UserID, "2026-08-10", 9*60, 10*60)

	totals, err := container.Reporting.DailyTotals(ctx, adminUser, employee.UserID,
		day(t, "2026-08-01"), day(t, "2026-08-31"))
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, DayTotal{Date: "2026-08-10", Minutes: 120}, totals[0])
	assert.Equal(t, DayTotal{Date: "2026-08-12", Minutes: 30}, totals[1])
}

func TestWeeklyTotals(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	// 2026-08-10 is a Monday in ISO week 33; 2026-08-16 is the
	// following Sunday, still week 33; 2026-08-17 opens week 34.
	logMinutes(t, container, employee.UserID, "2026-08-10", 9*60, 10*60)
	logMinutes(t, container, employee.UserID, "2026-08-16", 9*60, 10*60)
	logMinutes(t, container, employee.UserID, "2026-08-17", 9*60, 11*60)

	totals, err := container.Reporting.WeeklyTotals(ctx, adminUser, employee.UserID,
		day(t, "2026-08-01"), day(t, "2026-08-31"))
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, WeekTotal{ISOYear: 2026, ISOWeek: 33, Minutes: 120}, totals[0])
	assert.Equal(t, WeekTotal{ISOYear: 2026, ISOWeek: 34, Minutes: 120}, totals[1])
}

func TestMonthlyTotals(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	logMinutes(t, container, employee.UserID, "2026-07-20", 9*60, 10*60)
	logMinutes(t, container, employee.UserID, "2026-08-10", 9*60, 11*60)

	totals, err := container.Reporting.MonthlyTotals(ctx, adminUser, employee.UserID,
		day(t, "2026-07-01"), day(t, "2026-08-31"))
	require.NoError(t, err)

	require.Len(t, totals, 2)
	assert.Equal(t, MonthTotal{Year: 2026, Month: 7, Minutes: 60}, totals[0])
	assert.Equal(t, MonthTotal{Year: 2026, Month: 8, Minutes: 120}, totals[1])
}

func TestMonthlyTaskPie(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	task, err := container.Catalog.CreateTask(ctx, adminUser, "Landing page", nil)
	require.NoError(t, err)

	params := createParams(t, "2026-08-10", 9*60, 10*60+30, "") // 90m
	params.TaskID = &task.ID
	params.EmployeeID = &employee.UserID
	_, err = container.Entries.Create(ctx, adminUser, params)
	require.NoError(t, err)

	logMinutes(t, container, employee.UserID, "2026-08-11", 9*60, 9*60+30) // 30m, no task

	slices, err := container.Reporting.MonthlyTaskPie(ctx, adminUser, employee.UserID, 2026, time.August)
	require.NoError(t, err)

	require.Len(t, slices, 2)
	// Largest slice first.
	assert.Equal(t, "Landing page", slices[0].Label)
	assert.Equal(t, 90, slices[0].Minutes)
	assert.Equal(t, 75.0, slices[0].Percent)
	assert.Equal(t, "No task", slices[1].Label)
	assert.Equal(t, 30, slices[1].Minutes)
	assert.Equal(t, 25.0, slices[1].Percent)
}

func TestMonthlyTaskPie_Empty(t *testing.T) {
	container, _, _ := newTestServices(t)

	slices, err := container.Reporting.MonthlyTaskPie(context.Background(), adminUser, employee.UserID, 2026, time.August)
	require.NoError(t, err)
	assert.Empty(t, slices)
}

func TestTaskBreakdown(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	task, err := container.Catalog.CreateTask(ctx, adminUser, "Landing page", nil)
	require.NoError(t, err)

	params := createParams(t, "2026-08-10", 9*60, 10*60, "wireframes")
	params.TaskID = &task.ID
	params.EmployeeID = &employee.UserID
	_, err = container.Entries.Create(ctx, adminUser, params)
	require.NoError(t, err)

	logMinutes(t, container, employee.UserID, "2026-08-11", 9*60, 9*60+30)

	// Deleting the task flags its entries but keeps the snapshot title.
	require.NoError(t, container.Catalog.DeleteTask(ctx, adminUser, task.ID))

	items, err := container.Reporting.TaskBreakdown(ctx, adminUser, employee.UserID,
		day(t, "2026-08-01"), day(t, "2026-08-31"))
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Landing page", items[0].Title)
	assert.Equal(t, 60, items[0].TotalMinutes)
	require.Len(t, items[0].Entries, 1)
	assert.True(t, items[0].Entries[0].IsTaskDeleted)
	assert.Equal(t, "wireframes", items[0].Entries[0].ShortDescription)

	assert.Equal(t, "No task", items[1].Title)
	assert.Equal(t, 30, items[1].TotalMinutes)
	assert.False(t, items[1].Entries[0].IsTaskDeleted)
}

func TestProjectBudgetStatus(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	setRate(t, container, employee.UserID, 100000)

	project, err := container.Catalog.CreateProject(ctx, adminUser, "Website")
	require.NoError(t, err)
	task, err := container.Catalog.CreateTask(ctx, adminUser, "Landing page", &project.ID)
	require.NoError(t, err)
	require.NoError(t, container.Catalog.SetBudget(ctx, adminUser, project.ID, 2026, time.August, 500000))

	params := createParams(t, "2026-08-10", 9*60, 11*60, "") // 120m
	params.TaskID = &task.ID
	params.EmployeeID = &employee.UserID
	_, err = container.Entries.Create(ctx, adminUser, params)
	require.NoError(t, err)

	status, err := container.Reporting.ProjectBudgetStatus(ctx, adminUser, project.ID, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, int64(500000), status.BudgetToman)
	assert.Equal(t, 120, status.Minutes)
	assert.Equal(t, int64(200000), status.SpentToman)
	assert.Equal(t, int64(300000), status.RemainingToman)
}

func TestProjectBudgetStatus_MissingBudget(t *testing.T) {
	container, _, _ := newTestServices(t)
	ctx := context.Background()

	project, err := container.Catalog.CreateProject(ctx, adminUser, "Website")
	require.NoError(t, err)

	_, err = container.Reporting.ProjectBudgetStatus(ctx, adminUser, project.ID, 2026, time.August)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
