package domain

// Principal is the authenticated identity acting on a request.
// Identity and the admin flag come from the auth collaborator; this
// package only consumes them.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// CanActOn reports whether the principal may mutate a time entry owned
// by the given employee. Admins may act on anyone's entries, everyone
// else only on their own.
func (p Principal) CanActOn(employeeID int64) bool {
	return p.IsAdmin || p.UserID == employeeID
}
