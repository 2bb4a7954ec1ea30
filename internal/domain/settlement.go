package domain

import "time"

// Settlement is one recorded payment event for an (employee, year,
// month) period. Multiple settlements may exist for the same period;
// the running total is their sum. Settlements are created only by the
// reconciler and never edited.
type Settlement struct {
	ID          int64
	EmployeeID  int64
	Year        int
	Month       int
	AmountToman int64
	Reference   string
	SettledAt   time.Time
}

// IncomeStatement is the result of reconciling an employee's approved
// minutes against prior settlements for one calendar month.
type IncomeStatement struct {
	EmployeeID       int64 `json:"employee_id"`
	Year             int   `json:"year"`
	Month            int   `json:"month"`
	Minutes          int   `json:"minutes"`
	HourlyRateToman  int64 `json:"hourly_rate_toman"`
	IncomeToman      int64 `json:"income_toman"`
	PaidToman        int64 `json:"paid_toman"`
	OutstandingToman int64 `json:"outstanding_toman"`
}
