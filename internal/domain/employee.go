package domain

import "time"

// Role classifies an employee within the team.
type Role string

const (
	RolePageAdmin Role = "page_admin"
	RoleContent   Role = "content"
	RoleAnimator  Role = "animator"
	RoleDeveloper Role = "developer"
	RoleTeamLead  Role = "team_lead"
)

// EmployeeProfile holds per-employee billing attributes. Rates are in
// toman, the integer minor-unit currency denomination. Rate changes are
// not retroactive: income is always computed with the current rate.
type EmployeeProfile struct {
	ID              int64
	UserID          int64
	HourlyRateToman int64
	EmployeeCode    string
	Phone           string
	Role            Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
