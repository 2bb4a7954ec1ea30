package services

import (
	"context"
	"math"
	"sort"
	"time"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite"
)

// unassignedLabel names entries with no task in aggregated reports.
const unassignedLabel = "No task"

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	repo   sqlite.Repository
	clock  *clock.Clock
	mapper *domain.Mapper
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(repo sqlite.Repository, clk *clock.Clock, mapper *domain.Mapper) ReportingService {
	return &reportingServiceImpl{repo: repo, clock: clk, mapper: mapper}
}

// rangeEntries loads an employee's non-deleted entries between two
// dates inclusive. Admin only; reports expose other employees' time.
func (r *reportingServiceImpl) rangeEntries(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]*domain.TimeEntry, error) {
	if !principal.IsAdmin {
		return nil, errors.NewPermissionError("view reports", "time entries")
	}

	filter := domain.EntryFilter{
		EmployeeID: &employeeID,
		DateFrom:   &from,
		DateTo:     &to,
	}
	dbEntries, err := r.repo.SearchTimeEntries(ctx, r.mapper.FilterToDatabase(filter))
	if err != nil {
		return nil, err
	}
	entries, err := r.mapper.EntriesFromDatabase(dbEntries)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entries", err)
	}
	return entries, nil
}

// DailyTotals sums minutes per calendar day across the range.
func (r *reportingServiceImpl) DailyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]DayTotal, error) {
	entries, err := r.rangeEntries(ctx, principal, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	for _, entry := range entries {
		byDay[domain.FormatDate(entry.Date)] += entry.DurationMinutes
	}

	totals := make([]DayTotal, 0, len(byDay))
	for date, minutes := range byDay {
		totals = append(totals, DayTotal{Date: date, Minutes: minutes})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals, nil
}

// WeeklyTotals sums minutes per ISO week across the range.
func (r *reportingServiceImpl) WeeklyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]WeekTotal, error) {
	entries, err := r.rangeEntries(ctx, principal, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	type weekKey struct{ year, week int }
	byWeek := make(map[weekKey]int)
	for _, entry := range entries {
		year, week := entry.Date.ISOWeek()
		byWeek[weekKey{year, week}] += entry.DurationMinutes
	}

	totals := make([]WeekTotal, 0, len(byWeek))
	for key, minutes := range byWeek {
		totals = append(totals, WeekTotal{ISOYear: key.year, ISOWeek: key.week, Minutes: minutes})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].ISOYear != totals[j].ISOYear {
			return totals[i].ISOYear < totals[j].ISOYear
		}
		return totals[i].ISOWeek < totals[j].ISOWeek
	})
	return totals, nil
}

// MonthlyTotals sums minutes per calendar month across the range.
func (r *reportingServiceImpl) MonthlyTotals(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]MonthTotal, error) {
	entries, err := r.rangeEntries(ctx, principal, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	type monthKey struct{ year, month int }
	byMonth := make(map[monthKey]int)
	for _, entry := range entries {
		byMonth[monthKey{entry.Date.Year(), int(entry.Date.Month())}] += entry.DurationMinutes
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for key, minutes := range byMonth {
		totals = append(totals, MonthTotal{Year: key.year, Month: key.month, Minutes: minutes})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

// MonthlyTaskPie breaks one month's minutes into per-task slices with
// their percentage share, largest first. Percentages are rounded to two
// decimal places and may not sum to exactly 100.
func (r *reportingServiceImpl) MonthlyTaskPie(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) ([]TaskPieSlice, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, r.clock.Location())
	to := from.AddDate(0, 1, -1)

	entries, err := r.rangeEntries(ctx, principal, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	type slice struct {
		taskID  *int64
		label   string
		minutes int
	}
	byTask := make(map[int64]*slice)
	total := 0
	for _, entry := range entries {
		key := int64(0)
		if entry.TaskID != nil {
			key = *entry.TaskID
		}
		sl, ok := byTask[key]
		if !ok {
			label := entry.TaskTitleSnapshot
			if label == "" {
				label = unassignedLabel
			}
			sl = &slice{taskID: entry.TaskID, label: label}
			byTask[key] = sl
		}
		sl.minutes += entry.DurationMinutes
		total += entry.DurationMinutes
	}

	slices := make([]TaskPieSlice, 0, len(byTask))
	for _, sl := range byTask {
		percent := 0.0
		if total > 0 {
			percent = math.Round(float64(sl.minutes)/float64(total)*10000) / 100
		}
		slices = append(slices, TaskPieSlice{
			TaskID:  sl.taskID,
			Label:   sl.label,
			Minutes: sl.minutes,
			Percent: percent,
		})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Minutes != slices[j].Minutes {
			return slices[i].Minutes > slices[j].Minutes
		}
		return slices[i].Label < slices[j].Label
	})
	return slices, nil
}

// TaskBreakdown groups an employee's entries by task title snapshot and
// flags entries whose task has since been soft-deleted. Entries keep
// their snapshot title even when the live task was renamed or removed.
func (r *reportingServiceImpl) TaskBreakdown(ctx context.Context, principal domain.Principal, employeeID int64, from, to time.Time) ([]TaskBreakdownItem, error) {
	entries, err := r.rangeEntries(ctx, principal, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	// One lookup per distinct task across the range.
	taskDeleted := make(map[int64]bool)
	for _, entry := range entries {
		if entry.TaskID == nil {
			continue
		}
		if _, ok := taskDeleted[*entry.TaskID]; ok {
			continue
		}
		dbTask, err := r.repo.GetTask(ctx, *entry.TaskID)
		if err != nil {
			if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
				taskDeleted[*entry.TaskID] = true
				continue
			}
			return nil, err
		}
		taskDeleted[*entry.TaskID] = dbTask.IsDeleted
	}

	byTitle := make(map[string]*TaskBreakdownItem)
	order := make([]string, 0)
	for _, entry := range entries {
		title := entry.TaskTitleSnapshot
		if title == "" {
			title = unassignedLabel
		}
		item, ok := byTitle[title]
		if !ok {
			item = &TaskBreakdownItem{TaskID: entry.TaskID, Title: title}
			byTitle[title] = item
			order = append(order, title)
		}

		deleted := false
		if entry.TaskID != nil {
			deleted = taskDeleted[*entry.TaskID]
		}
		item.TotalMinutes += entry.DurationMinutes
		item.Entries = append(item.Entries, BreakdownEntry{
			ID:               entry.ID,
			Date:             domain.FormatDate(entry.Date),
			StartTime:        domain.FormatClock(entry.StartMinutes),
			EndTime:          domain.FormatClock(entry.EndMinutes),
			Minutes:          entry.DurationMinutes,
			ShortDescription: entry.ShortDescription,
			IsTaskDeleted:    deleted,
		})
	}

	sort.Strings(order)
	items := make([]TaskBreakdownItem, 0, len(order))
	for _, title := range order {
		items = append(items, *byTitle[title])
	}
	return items, nil
}

// ProjectBudgetStatus compares a project's monthly budget against the
// cost of time logged to its tasks that month, pricing each entry at
// its employee's current hourly rate. Employees without a profile
// contribute minutes at rate zero.
func (r *reportingServiceImpl) ProjectBudgetStatus(ctx context.Context, principal domain.Principal, projectID int64, year int, month time.Month) (*BudgetStatus, error) {
	if !principal.IsAdmin {
		return nil, errors.NewPermissionError("view reports", "project budget")
	}

	dbBudget, err := r.repo.GetProjectBudget(ctx, projectID, year, int(month))
	if err != nil {
		return nil, err
	}
	budget := r.mapper.BudgetFromDatabase(*dbBudget)

	dbEntries, err := r.repo.ListEntriesForProjectMonth(ctx, projectID, year, int(month))
	if err != nil {
		return nil, err
	}
	entries, err := r.mapper.EntriesFromDatabase(dbEntries)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entries", err)
	}

	rates := make(map[int64]int64)
	minutes := 0
	var spent int64
	for _, entry := range entries {
		rate, ok := rates[entry.EmployeeID]
		if !ok {
			dbProfile, err := r.repo.GetEmployeeProfile(ctx, entry.EmployeeID)
			switch {
			case err == nil:
				rate = dbProfile.HourlyRateToman
			case errors.IsErrorType(err, errors.ErrorTypeNotFound):
				rate = 0
			default:
				return nil, err
			}
			rates[entry.EmployeeID] = rate
		}
		minutes += entry.DurationMinutes
		spent += incomeFromMinutes(entry.DurationMinutes, rate)
	}

	return &BudgetStatus{
		ProjectID:      projectID,
		Year:           year,
		Month:          int(month),
		BudgetToman:    budget.BudgetToman,
		Minutes:        minutes,
		SpentToman:     spent,
		RemainingToman: budget.BudgetToman - spent,
	}, nil
}
