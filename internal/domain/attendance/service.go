package attendance

import (
	"context"
)

// Service defines the attendance state engine and punch ledger.
// Writes targeting the same (employee, date) key are serialized; every
// operation is all-or-nothing under cancellation.
type Service interface {
	// AppendPunch appends a clock event, creating the day's record as
	// present when none exists yet
	AppendPunch(ctx context.Context, req PunchRequest) (RecordResponse, error)

	// QuickMark sets the day status in one step; creation-only
	QuickMark(ctx context.Context, req QuickMarkRequest) (RecordResponse, error)

	// UpdateRecord corrects an existing record's status or name
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)

	// DeleteRecord removes a record and its punches
	DeleteRecord(ctx context.Context, id string) error

	// GetRecord retrieves a single record by ID
	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	// GetForEmployeeDate retrieves one employee's record for a day
	GetForEmployeeDate(ctx context.Context, employeeID, date string) (RecordResponse, error)
}
