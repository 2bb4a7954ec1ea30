package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSlice collects entities from rows using the single-row scan function.
func scanSlice[T any](rows Rows, scanFunc func(Scanner) (*T, error)) ([]*T, error) {
	var results []*T
	for rows.Next() {
		item, err := scanFunc(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ScanTimeEntry scans a single time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var createdAt, updatedAt string

	err := scanner.Scan(
		&entry.ID,
		&entry.EmployeeID,
		&entry.TaskID,
		&entry.TaskTitleSnapshot,
		&entry.Date,
		&entry.StartTime,
		&entry.EndTime,
		&entry.DurationMinutes,
		&entry.ShortDescription,
		&entry.Source,
		&entry.IsDeleted,
		&entry.EditedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if entry.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanSlice(rows, ScanTimeEntry)
}

// ScanTimeEntryEdit scans a single audit row
func ScanTimeEntryEdit(scanner Scanner) (*TimeEntryEdit, error) {
	edit := &TimeEntryEdit{}
	var timestamp string

	err := scanner.Scan(
		&edit.ID,
		&edit.TimeEntryID,
		&edit.EditorID,
		&edit.OldValues,
		&edit.NewValues,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}

	if edit.Timestamp, err = ParseTimeFromDB(timestamp); err != nil {
		return nil, err
	}

	return edit, nil
}

// ScanTimeEntryEdits scans multiple audit rows
func ScanTimeEntryEdits(rows Rows) ([]*TimeEntryEdit, error) {
	return scanSlice(rows, ScanTimeEntryEdit)
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var deletedAt *string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&task.ProjectID,
		&task.CreatedBy,
		&task.IsDeleted,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if task.DeletedAt, err = ParseTimePtrFromDB(deletedAt); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	return scanSlice(rows, ScanTask)
}

// ScanProject scans a single project from a database row
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	var deletedAt *string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&project.ID,
		&project.Name,
		&project.CreatedBy,
		&project.IsDeleted,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if project.DeletedAt, err = ParseTimePtrFromDB(deletedAt); err != nil {
		return nil, err
	}
	if project.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return project, nil
}

// ScanEmployeeProfile scans a single employee profile
func ScanEmployeeProfile(scanner Scanner) (*EmployeeProfile, error) {
	profile := &EmployeeProfile{}
	var createdAt, updatedAt string

	err := scanner.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.HourlyRateToman,
		&profile.EmployeeCode,
		&profile.Phone,
		&profile.Role,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if profile.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if profile.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return profile, nil
}

// ScanSettlement scans a single settlement row
func ScanSettlement(scanner Scanner) (*Settlement, error) {
	settlement := &Settlement{}
	var settledAt string

	err := scanner.Scan(
		&settlement.ID,
		&settlement.EmployeeID,
		&settlement.Year,
		&settlement.Month,
		&settlement.AmountToman,
		&settlement.Reference,
		&settledAt,
	)
	if err != nil {
		return nil, err
	}

	if settlement.SettledAt, err = ParseTimeFromDB(settledAt); err != nil {
		return nil, err
	}

	return settlement, nil
}

// ScanSettlements scans multiple settlement rows
func ScanSettlements(rows Rows) ([]*Settlement, error) {
	return scanSlice(rows, ScanSettlement)
}

// ScanProjectMonthlyBudget scans a single budget row
func ScanProjectMonthlyBudget(scanner Scanner) (*ProjectMonthlyBudget, error) {
	budget := &ProjectMonthlyBudget{}
	var createdAt, updatedAt string

	err := scanner.Scan(
		&budget.ID,
		&budget.ProjectID,
		&budget.Year,
		&budget.Month,
		&budget.BudgetToman,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if budget.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if budget.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}

	return budget, nil
}
