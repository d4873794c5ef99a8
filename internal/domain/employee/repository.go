package employee

import "context"

// RosterProvider lists the employees eligible for attendance tracking.
// Must return a stable ID and display name per employee, in roster
// order.
type RosterProvider interface {
	// ListActiveEmployees returns every active employee.
	ListActiveEmployees(ctx context.Context) ([]Employee, error)

	// GetByID retrieves one employee regardless of active flag.
	GetByID(ctx context.Context, id string) (Employee, error)
}
