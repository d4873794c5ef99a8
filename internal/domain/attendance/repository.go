package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records and their
// punch sequences. Implementations must load Punches ordered by Seq
// and enforce the (employee_id, date) unique key, returning
// ErrConflict on a concurrent insert of the same key.
type Repository interface {
	// Create inserts a new record, including any punches it carries.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record with its full punch sequence.
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate retrieves the record for one employee on one
	// day, or nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// UpdateStatus replaces the record's status; when clearPunches is
	// set the punch sequence is deleted in the same transaction.
	UpdateStatus(ctx context.Context, id string, status Status, clearPunches bool) error

	// UpdateEmployeeName corrects the denormalized display name.
	UpdateEmployeeName(ctx context.Context, id string, name string) error

	// AppendPunch adds one punch at the end of the record's sequence.
	AppendPunch(ctx context.Context, recordID string, punch Punch) error

	// Delete removes the record and its punches.
	Delete(ctx context.Context, id string) error

	// ListByDate returns all records on one day.
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// ListRange returns all records with from <= date <= to.
	ListRange(ctx context.Context, from, to time.Time) ([]Record, error)

	// ListAll returns every record; analytics input.
	ListAll(ctx context.Context) ([]Record, error)
}

// TxRunner executes fn atomically against the backing store. The
// state engine wraps every multi-statement mutation in one so a
// cancelled or failed operation leaves no partial state.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
