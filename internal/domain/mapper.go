package domain

import (
	"encoding/json"
	"time"

	"timesheet/internal/repository/sqlite"
)

// Mapper handles conversion between domain and database models. Dates
// and wall-clock times are strings in storage and typed values in the
// domain, so conversions out of the database can fail on corrupt rows.
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a new Mapper resolving dates in the given zone.
func NewMapper(loc *time.Location) *Mapper {
	return &Mapper{loc: loc}
}

// EntryToDatabase converts a domain TimeEntry to its storage shape.
func (m *Mapper) EntryToDatabase(entry TimeEntry) sqlite.TimeEntry {
	var description *string
	if entry.ShortDescription != "" {
		description = &entry.ShortDescription
	}
	return sqlite.TimeEntry{
		ID:                entry.ID,
		EmployeeID:        entry.EmployeeID,
		TaskID:            entry.TaskID,
		TaskTitleSnapshot: entry.TaskTitleSnapshot,
		Date:              FormatDate(entry.Date),
		StartTime:         FormatClock(entry.StartMinutes),
		EndTime:           FormatClock(entry.EndMinutes),
		DurationMinutes:   entry.DurationMinutes,
		ShortDescription:  description,
		Source:            string(entry.Source),
		IsDeleted:         entry.IsDeleted,
		EditedBy:          entry.EditedBy,
		CreatedAt:         entry.CreatedAt,
		UpdatedAt:         entry.UpdatedAt,
	}
}

// EntryFromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *Mapper) EntryFromDatabase(dbEntry sqlite.TimeEntry) (TimeEntry, error) {
	date, err := ParseDate(dbEntry.Date, m.loc)
	if err != nil {
		return TimeEntry{}, err
	}
	start, err := ParseClock(dbEntry.StartTime)
	if err != nil {
		return TimeEntry{}, err
	}
	end, err := ParseClock(dbEntry.EndTime)
	if err != nil {
		return TimeEntry{}, err
	}

	description := ""
	if dbEntry.ShortDescription != nil {
		description = *dbEntry.ShortDescription
	}

	return TimeEntry{
		ID:                dbEntry.ID,
		EmployeeID:        dbEntry.EmployeeID,
		TaskID:            dbEntry.TaskID,
		TaskTitleSnapshot: dbEntry.TaskTitleSnapshot,
		Date:              date,
		StartMinutes:      start,
		EndMinutes:        end,
		DurationMinutes:   dbEntry.DurationMinutes,
		ShortDescription:  description,
		Source:            EntrySource(dbEntry.Source),
		IsDeleted:         dbEntry.IsDeleted,
		EditedBy:          dbEntry.EditedBy,
		CreatedAt:         dbEntry.CreatedAt,
		UpdatedAt:         dbEntry.UpdatedAt,
	}, nil
}

// EntriesFromDatabase converts a slice of database TimeEntries.
func (m *Mapper) EntriesFromDatabase(dbEntries []*sqlite.TimeEntry) ([]*TimeEntry, error) {
	entries := make([]*TimeEntry, len(dbEntries))
	for i, dbEntry := range dbEntries {
		entry, err := m.EntryFromDatabase(*dbEntry)
		if err != nil {
			return nil, err
		}
		entries[i] = &entry
	}
	return entries, nil
}

// EditToDatabase converts an audit record to its storage shape,
// serializing the snapshots to JSON.
func (m *Mapper) EditToDatabase(edit TimeEntryEdit) (sqlite.TimeEntryEdit, error) {
	oldValues, err := json.Marshal(edit.OldValues)
	if err != nil {
		return sqlite.TimeEntryEdit{}, err
	}
	newValues, err := json.Marshal(edit.NewValues)
	if err != nil {
		return sqlite.TimeEntryEdit{}, err
	}

	return sqlite.TimeEntryEdit{
		ID:          edit.ID,
		TimeEntryID: edit.TimeEntryID,
		EditorID:    edit.EditorID,
		OldValues:   string(oldValues),
		NewValues:   string(newValues),
		Timestamp:   edit.Timestamp,
	}, nil
}

// EditFromDatabase converts a database audit record to the domain shape.
func (m *Mapper) EditFromDatabase(dbEdit sqlite.TimeEntryEdit) (TimeEntryEdit, error) {
	edit := TimeEntryEdit{
		ID:          dbEdit.ID,
		TimeEntryID: dbEdit.TimeEntryID,
		EditorID:    dbEdit.EditorID,
		Timestamp:   dbEdit.Timestamp,
	}
	if err := json.Unmarshal([]byte(dbEdit.OldValues), &edit.OldValues); err != nil {
		return TimeEntryEdit{}, err
	}
	if err := json.Unmarshal([]byte(dbEdit.NewValues), &edit.NewValues); err != nil {
		return TimeEntryEdit{}, err
	}
	return edit, nil
}

// EditsFromDatabase converts a slice of database audit records.
func (m *Mapper) EditsFromDatabase(dbEdits []*sqlite.TimeEntryEdit) ([]*TimeEntryEdit, error) {
	edits := make([]*TimeEntryEdit, len(dbEdits))
	for i, dbEdit := range dbEdits {
		edit, err := m.EditFromDatabase(*dbEdit)
		if err != nil {
			return nil, err
		}
		edits[i] = &edit
	}
	return edits, nil
}

// TaskFromDatabase converts a database Task to a domain Task.
func (m *Mapper) TaskFromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:        dbTask.ID,
		Title:     dbTask.Title,
		ProjectID: dbTask.ProjectID,
		CreatedBy: dbTask.CreatedBy,
		IsDeleted: dbTask.IsDeleted,
		DeletedAt: dbTask.DeletedAt,
		CreatedAt: dbTask.CreatedAt,
		UpdatedAt: dbTask.UpdatedAt,
	}
}

// TaskToDatabase converts a domain Task to a database Task.
func (m *Mapper) TaskToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:        task.ID,
		Title:     task.Title,
		ProjectID: task.ProjectID,
		CreatedBy: task.CreatedBy,
		IsDeleted: task.IsDeleted,
		DeletedAt: task.DeletedAt,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ProjectFromDatabase converts a database Project to a domain Project.
func (m *Mapper) ProjectFromDatabase(dbProject sqlite.Project) Project {
	return Project{
		ID:        dbProject.ID,
		Name:      dbProject.Name,
		CreatedBy: dbProject.CreatedBy,
		IsDeleted: dbProject.IsDeleted,
		DeletedAt: dbProject.DeletedAt,
		CreatedAt: dbProject.CreatedAt,
		UpdatedAt: dbProject.UpdatedAt,
	}
}

// ProjectToDatabase converts a domain Project to a database Project.
func (m *Mapper) ProjectToDatabase(project Project) sqlite.Project {
	return sqlite.Project{
		ID:        project.ID,
		Name:      project.Name,
		CreatedBy: project.CreatedBy,
		IsDeleted: project.IsDeleted,
		DeletedAt: project.DeletedAt,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

// ProfileFromDatabase converts a database EmployeeProfile.
func (m *Mapper) ProfileFromDatabase(dbProfile sqlite.EmployeeProfile) EmployeeProfile {
	code, phone := "", ""
	if dbProfile.EmployeeCode != nil {
		code = *dbProfile.EmployeeCode
	}
	if dbProfile.Phone != nil {
		phone = *dbProfile.Phone
	}
	return EmployeeProfile{
		ID:              dbProfile.ID,
		UserID:          dbProfile.UserID,
		HourlyRateToman: dbProfile.HourlyRateToman,
		EmployeeCode:    code,
		Phone:           phone,
		Role:            Role(dbProfile.Role),
		CreatedAt:       dbProfile.CreatedAt,
		UpdatedAt:       dbProfile.UpdatedAt,
	}
}

// ProfileToDatabase converts a domain EmployeeProfile.
func (m *Mapper) ProfileToDatabase(profile EmployeeProfile) sqlite.EmployeeProfile {
	var code, phone *string
	if profile.EmployeeCode != "" {
		code = &profile.EmployeeCode
	}
	if profile.Phone != "" {
		phone = &profile.Phone
	}
	return sqlite.EmployeeProfile{
		ID:              profile.ID,
		UserID:          profile.UserID,
		HourlyRateToman: profile.HourlyRateToman,
		EmployeeCode:    code,
		Phone:           phone,
		Role:            string(profile.Role),
		CreatedAt:       profile.CreatedAt,
		UpdatedAt:       profile.UpdatedAt,
	}
}

// SettlementFromDatabase converts a database Settlement.
func (m *Mapper) SettlementFromDatabase(dbSettlement sqlite.Settlement) Settlement {
	return Settlement{
		ID:          dbSettlement.ID,
		EmployeeID:  dbSettlement.EmployeeID,
		Year:        dbSettlement.Year,
		Month:       dbSettlement.Month,
		AmountToman: dbSettlement.AmountToman,
		Reference:   dbSettlement.Reference,
		SettledAt:   dbSettlement.SettledAt,
	}
}

// SettlementToDatabase converts a domain Settlement.
func (m *Mapper) SettlementToDatabase(settlement Settlement) sqlite.Settlement {
	return sqlite.Settlement{
		ID:          settlement.ID,
		EmployeeID:  settlement.EmployeeID,
		Year:        settlement.Year,
		Month:       settlement.Month,
		AmountToman: settlement.AmountToman,
		Reference:   settlement.Reference,
		SettledAt:   settlement.SettledAt,
	}
}

// BudgetFromDatabase converts a database ProjectMonthlyBudget.
func (m *Mapper) BudgetFromDatabase(dbBudget sqlite.ProjectMonthlyBudget) ProjectMonthlyBudget {
	return ProjectMonthlyBudget{
		ID:          dbBudget.ID,
		ProjectID:   dbBudget.ProjectID,
		Year:        dbBudget.Year,
		Month:       dbBudget.Month,
		BudgetToman: dbBudget.BudgetToman,
		CreatedAt:   dbBudget.CreatedAt,
		UpdatedAt:   dbBudget.UpdatedAt,
	}
}

// FilterToDatabase converts domain search criteria to database options.
func (m *Mapper) FilterToDatabase(filter EntryFilter) sqlite.SearchOptions {
	opts := sqlite.SearchOptions{
		EmployeeID:     filter.EmployeeID,
		TaskID:         filter.TaskID,
		CreatedAfter:   filter.CreatedAfter,
		IncludeDeleted: filter.IncludeDeleted,
	}
	if filter.DateFrom != nil {
		from := FormatDate(*filter.DateFrom)
		opts.DateFrom = &from
	}
	if filter.DateTo != nil {
		to := FormatDate(*filter.DateTo)
		opts.DateTo = &to
	}
	return opts
}
