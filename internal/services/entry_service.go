package services

import (
	"context"
	"fmt"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/validation"
)

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	repo        sqlite.Repository
	clock       *clock.Clock
	mapper      *domain.Mapper
	eligibility EligibilityService
	validator   *validation.EntryValidator
	dayLocks    *keyedMutex
}

// NewEntryService creates a new EntryService instance
func NewEntryService(repo sqlite.Repository, clk *clock.Clock, mapper *domain.Mapper, eligibility EligibilityService) EntryService {
	return &entryServiceImpl{
		repo:        repo,
		clock:       clk,
		mapper:      mapper,
		eligibility: eligibility,
		validator:   validation.NewEntryValidator(),
		dayLocks:    newKeyedMutex(),
	}
}

// dayKey scopes the overlap-check-and-commit critical section.
func dayKey(employeeID int64, date string) string {
	return fmt.Sprintf("%d:%s", employeeID, date)
}

// withRetry runs a mutation and retries it once when a transient
// concurrent-write conflict is detected, per the consistency contract.
func withRetry(fn func() error) error {
	err := fn()
	if errors.IsErrorType(err, errors.ErrorTypeConsistency) {
		logging.Debugf("retrying after consistency conflict: %v\n", err)
		return fn()
	}
	return err
}

// Create validates and persists a new time entry. Validation order:
// interval sanity, task eligibility, submission window, project
// membership, overlap. No audit record is written for creation; the
// audit trail begins at the first edit.
func (s *entryServiceImpl) Create(ctx context.Context, principal domain.Principal, params CreateEntryParams) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateInterval(params.StartMinutes, params.EndMinutes, params.Description); err != nil {
		return nil, err
	}

	employeeID := principal.UserID
	if params.EmployeeID != nil && *params.EmployeeID != principal.UserID {
		if !principal.IsAdmin {
			return nil, errors.NewPermissionError("create entry for another employee", "time entry")
		}
		employeeID = *params.EmployeeID
	}

	var task *domain.Task
	if params.TaskID != nil {
		var err error
		task, err = s.eligibility.CheckTask(ctx, *params.TaskID)
		if err != nil {
			return nil, err
		}
	}

	today, yesterday := s.clock.TodayAndYesterday()
	if err := s.validator.ValidateSubmissionWindow(principal, params.Date, today, yesterday); err != nil {
		return nil, err
	}

	if err := s.eligibility.CheckMembership(ctx, principal, task); err != nil {
		return nil, err
	}

	source := params.Source
	if source == "" {
		source = domain.SourceManual
	}
	if !source.IsValid() {
		validationError := validation.NewValidationError()
		validationError.AddInvalidValueError("source", string(source), "must be MANUAL or TIMER")
		return nil, validationError
	}

	snapshot := ""
	if task != nil {
		snapshot = task.Title
	}

	now := s.clock.Now()
	entry := domain.TimeEntry{
		EmployeeID:        employeeID,
		TaskID:            params.TaskID,
		TaskTitleSnapshot: snapshot,
		Date:              params.Date,
		StartMinutes:      params.StartMinutes,
		EndMinutes:        params.EndMinutes,
		DurationMinutes:   s.clock.DurationMinutes(params.Date, params.StartMinutes, params.EndMinutes),
		ShortDescription:  params.Description,
		Source:            source,
		EditedBy:          &principal.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	date := domain.FormatDate(params.Date)
	unlock := s.dayLocks.Lock(dayKey(employeeID, date))
	defer unlock()

	if err := s.checkOverlap(ctx, employeeID, date, params.StartMinutes, params.EndMinutes, nil); err != nil {
		return nil, err
	}

	dbEntry := s.mapper.EntryToDatabase(entry)
	if err := withRetry(func() error { return s.repo.CreateTimeEntry(ctx, &dbEntry) }); err != nil {
		return nil, err
	}

	entry.ID = dbEntry.ID
	return &entry, nil
}

// Update applies changed fields to an entry, re-running the create
// validations against the effective post-update values, and commits
// the mutation together with exactly one audit record.
func (s *entryServiceImpl) Update(ctx context.Context, principal domain.Principal, entryID int64, params UpdateEntryParams) (*domain.TimeEntry, error) {
	existing, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActOn(existing.EmployeeID) {
		return nil, errors.NewPermissionError("update", "time entry")
	}

	// Effective values after the update; unsupplied fields inherit from
	// the existing record.
	updated := *existing
	if params.Date != nil {
		updated.Date = *params.Date
	}
	if params.StartMinutes != nil {
		updated.StartMinutes = *params.StartMinutes
	}
	if params.EndMinutes != nil {
		updated.EndMinutes = *params.EndMinutes
	}
	if params.Description != nil {
		updated.ShortDescription = *params.Description
	}
	// Source is immutable after creation; a supplied value is dropped.

	if err := s.validator.ValidateInterval(updated.StartMinutes, updated.EndMinutes, updated.ShortDescription); err != nil {
		return nil, err
	}

	today, yesterday := s.clock.TodayAndYesterday()
	if err := s.validator.ValidateSubmissionWindow(principal, updated.Date, today, yesterday); err != nil {
		return nil, err
	}

	if params.TaskID != nil {
		task, err := s.eligibility.CheckTask(ctx, *params.TaskID)
		if err != nil {
			return nil, err
		}
		if err := s.eligibility.CheckMembership(ctx, principal, task); err != nil {
			return nil, err
		}
		updated.TaskID = params.TaskID
		updated.TaskTitleSnapshot = task.Title
	}

	oldValues := domain.SnapshotOf(existing)

	date := domain.FormatDate(updated.Date)
	unlock := s.dayLocks.Lock(dayKey(updated.EmployeeID, date))
	defer unlock()

	if err := s.checkOverlap(ctx, updated.EmployeeID, date, updated.StartMinutes, updated.EndMinutes, &entryID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	updated.DurationMinutes = s.clock.DurationMinutes(updated.Date, updated.StartMinutes, updated.EndMinutes)
	updated.EditedBy = &principal.UserID
	updated.UpdatedAt = now

	edit := domain.TimeEntryEdit{
		TimeEntryID: entryID,
		EditorID:    &principal.UserID,
		OldValues:   oldValues,
		NewValues:   domain.SnapshotOf(&updated),
		Timestamp:   now,
	}

	dbEntry := s.mapper.EntryToDatabase(updated)
	dbEdit, err := s.mapper.EditToDatabase(edit)
	if err != nil {
		return nil, errors.NewDatabaseError("serialize audit snapshot", err)
	}

	if err := withRetry(func() error { return s.repo.UpdateTimeEntryWithEdit(ctx, &dbEntry, &dbEdit) }); err != nil {
		return nil, err
	}

	return &updated, nil
}

// SoftDelete flags an entry deleted and records the is_deleted
// transition in the audit trail. The row is never physically removed.
func (s *entryServiceImpl) SoftDelete(ctx context.Context, principal domain.Principal, entryID int64) error {
	existing, err := s.load(ctx, entryID)
	if err != nil {
		return err
	}
	if !principal.CanActOn(existing.EmployeeID) {
		return errors.NewPermissionError("delete", "time entry")
	}

	now := s.clock.Now()
	existing.EditedBy = &principal.UserID
	existing.UpdatedAt = now

	edit := domain.TimeEntryEdit{
		TimeEntryID: entryID,
		EditorID:    &principal.UserID,
		OldValues:   domain.DeletionSnapshot(existing.IsDeleted),
		NewValues:   domain.DeletionSnapshot(true),
		Timestamp:   now,
	}

	dbEntry := s.mapper.EntryToDatabase(*existing)
	dbEdit, err := s.mapper.EditToDatabase(edit)
	if err != nil {
		return errors.NewDatabaseError("serialize audit snapshot", err)
	}

	return withRetry(func() error { return s.repo.SoftDeleteTimeEntryWithEdit(ctx, &dbEntry, &dbEdit) })
}

// Get retrieves a single entry, restricted to its owner or an admin.
func (s *entryServiceImpl) Get(ctx context.Context, principal domain.Principal, entryID int64) (*domain.TimeEntry, error) {
	entry, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActOn(entry.EmployeeID) {
		return nil, errors.NewPermissionError("view", "time entry")
	}
	return entry, nil
}

// List retrieves entries for the principal. Non-admins see only their
// own non-deleted entries created after their most recent settlement;
// settled history stays in storage for admin and audit queries.
func (s *entryServiceImpl) List(ctx context.Context, principal domain.Principal, filter domain.EntryFilter) ([]*domain.TimeEntry, error) {
	if !principal.IsAdmin {
		filter.EmployeeID = &principal.UserID
		filter.IncludeDeleted = false

		if filter.CreatedAfter == nil {
			cutoff, err := s.repo.LatestSettlementTime(ctx, principal.UserID)
			if err != nil {
				return nil, err
			}
			filter.CreatedAfter = cutoff
		}
	}

	dbEntries, err := s.repo.SearchTimeEntries(ctx, s.mapper.FilterToDatabase(filter))
	if err != nil {
		return nil, err
	}
	return s.mapper.EntriesFromDatabase(dbEntries)
}

// load fetches an entry by ID after validating the identifier.
func (s *entryServiceImpl) load(ctx context.Context, entryID int64) (*domain.TimeEntry, error) {
	if err := s.validator.ValidateEntryID(entryID); err != nil {
		return nil, err
	}
	dbEntry, err := s.repo.GetTimeEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry, err := s.mapper.EntryFromDatabase(*dbEntry)
	if err != nil {
		return nil, errors.NewDatabaseError("decode time entry", err)
	}
	return &entry, nil
}

// checkOverlap scans the employee's non-deleted entries on the date and
// rejects the candidate half-open interval on the first conflict.
// Touching endpoints do not conflict.
func (s *entryServiceImpl) checkOverlap(ctx context.Context, employeeID int64, date string, startMinutes, endMinutes int, excludeID *int64) error {
	dbEntries, err := s.repo.ListEntriesForEmployeeDate(ctx, employeeID, date)
	if err != nil {
		return err
	}
	entries, err := s.mapper.EntriesFromDatabase(dbEntries)
	if err != nil {
		return errors.NewDatabaseError("decode time entries", err)
	}

	for _, other := range entries {
		if excludeID != nil && other.ID == *excludeID {
			continue
		}
		if other.Overlaps(startMinutes, endMinutes) {
			return s.validator.OverlapError(startMinutes, endMinutes)
		}
	}
	return nil
}
