package services

import (
	"context"

	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite"
)

// auditServiceImpl implements the AuditService interface
type auditServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo sqlite.Repository, mapper *domain.Mapper) AuditService {
	return &auditServiceImpl{repo: repo, mapper: mapper}
}

// ListForEntry returns the edit trail of an entry, newest first.
// Restricted to administrators; the trail exposes other users' editor
// identities and historic values.
func (a *auditServiceImpl) ListForEntry(ctx context.Context, principal domain.Principal, entryID int64) ([]*domain.TimeEntryEdit, error) {
	if !principal.IsAdmin {
		return nil, errors.NewPermissionError("view audit trail", "time entry")
	}

	if _, err := a.repo.GetTimeEntry(ctx, entryID); err != nil {
		return nil, err
	}

	dbEdits, err := a.repo.ListEditsForEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	edits, err := a.mapper.EditsFromDatabase(dbEdits)
	if err != nil {
		return nil, errors.NewDatabaseError("decode audit records", err)
	}
	return edits, nil
}
