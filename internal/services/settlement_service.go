package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/clock"
	"timesheet/internal/domain"
	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlite"
)

// settlementServiceImpl implements the SettlementService interface
type settlementServiceImpl struct {
	repo        sqlite.Repository
	clock       *clock.Clock
	mapper      *domain.Mapper
	periodLocks *keyedMutex
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(repo sqlite.Repository, clk *clock.Clock, mapper *domain.Mapper) SettlementService {
	return &settlementServiceImpl{
		repo:        repo,
		clock:       clk,
		mapper:      mapper,
		periodLocks: newKeyedMutex(),
	}
}

func periodKey(employeeID int64, year int, month time.Month) string {
	return fmt.Sprintf("%d:%04d-%02d", employeeID, year, int(month))
}

// incomeFromMinutes prices logged minutes at an hourly rate, rounding
// half away from zero to whole toman.
func incomeFromMinutes(minutes int, hourlyRateToman int64) int64 {
	return int64(math.Round(float64(minutes) * float64(hourlyRateToman) / 60.0))
}

// ComputeIncome derives the income statement for an employee's month:
// logged minutes priced at the employee's current hourly rate, minus
// what has already been settled for that period. Rate history is not
// kept, so past months are always re-priced at today's rate. Employees
// may view their own statement; admins may view anyone's.
func (s *settlementServiceImpl) ComputeIncome(ctx context.Context, principal domain.Principal, employeeID int64, year int, month time.Month) (*domain.IncomeStatement, error) {
	if !principal.CanActOn(employeeID) {
		return nil, errors.NewPermissionError("view income", "income statement")
	}
	return s.computeIncome(ctx, employeeID, year, month)
}

func (s *settlementServiceImpl) computeIncome(ctx context.Context, employeeID int64, year int, month time.Month) (*domain.IncomeStatement, error) {
	dbProfile, err := s.repo.GetEmployeeProfile(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	profile := s.mapper.ProfileFromDatabase(*dbProfile)

	minutes, err := s.repo.SumEntryMinutesForMonth(ctx, employeeID, year, int(month))
	if err != nil {
		return nil, err
	}

	income := incomeFromMinutes(minutes, profile.HourlyRateToman)

	paid, err := s.repo.SumSettledForMonth(ctx, employeeID, year, int(month))
	if err != nil {
		return nil, err
	}

	outstanding := income - paid
	if outstanding < 0 {
		outstanding = 0
	}

	return &domain.IncomeStatement{
		EmployeeID:       employeeID,
		Year:             year,
		Month:            int(month),
		Minutes:          minutes,
		HourlyRateToman:  profile.HourlyRateToman,
		IncomeToman:      income,
		PaidToman:        paid,
		OutstandingToman: outstanding,
	}, nil
}

// Settle records a payment event covering the employee's outstanding
// balance for the current period. Admin only. Settling twice in a row
// is a no-op: the second call finds a zero balance and writes nothing.
func (s *settlementServiceImpl) Settle(ctx context.Context, principal domain.Principal, employeeID int64) (*domain.IncomeStatement, *domain.Settlement, error) {
	if !principal.IsAdmin {
		return nil, nil, errors.NewPermissionError("settle", "income statement")
	}

	year, month := s.clock.CurrentPeriod()

	unlock := s.periodLocks.Lock(periodKey(employeeID, year, month))
	defer unlock()

	statement, err := s.computeIncome(ctx, employeeID, year, month)
	if err != nil {
		return nil, nil, err
	}
	if statement.OutstandingToman == 0 {
		return statement, nil, nil
	}

	settlement := domain.Settlement{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       int(month),
		AmountToman: statement.OutstandingToman,
		Reference:   uuid.NewString(),
		SettledAt:   s.clock.Now(),
	}

	dbSettlement := s.mapper.SettlementToDatabase(settlement)
	if err := withRetry(func() error { return s.repo.CreateSettlement(ctx, &dbSettlement) }); err != nil {
		return nil, nil, err
	}
	settlement.ID = dbSettlement.ID

	statement.PaidToman += settlement.AmountToman
	statement.OutstandingToman = 0
	return statement, &settlement, nil
}
