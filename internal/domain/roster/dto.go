package roster

import (
	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
)

// Row pairs one active employee with their attendance record for a
// day. Record is nil when the employee has not been marked yet.
type Row struct {
	Employee employee.Employee
	Record   *attendance.Record
}

type RowResponse struct {
	EmployeeID   string                     `json:"employee_id"`
	EmployeeName string                     `json:"employee_name"`
	Record       *attendance.RecordResponse `json:"record,omitempty"`
	Status       string                     `json:"status"` // record status or "not_marked"
}

type DayViewResponse struct {
	Date  string        `json:"date"`
	Rows  []RowResponse `json:"rows"`
	Total int           `json:"total"`
}
