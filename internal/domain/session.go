package domain

import "github.com/google/uuid"

// Session is the authenticated context of a request.
// EmployeeID is uuid.Nil for staff accounts without an employee record.
type Session struct {
	IsAuthenticated bool
	UserID          uuid.UUID
	EmployeeID      uuid.UUID
	Email           string
	Role            UserRole
}

// Anonymous returns the session of an unauthenticated caller.
func Anonymous() Session { return Session{} }

// IsStaff reports whether the session belongs to an admin or HR user.
func (s Session) IsStaff() bool {
	return s.Role == RoleAdmin || s.Role == RoleHR
}

// Owns reports whether the session is the given employee.
func (s Session) Owns(employeeID uuid.UUID) bool {
	return s.EmployeeID != uuid.Nil && s.EmployeeID == employeeID
}
