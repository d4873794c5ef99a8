package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/domain/roster"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// StatusNotMarked is the presentation status for an active employee
// with no attendance record on the selected day.
const StatusNotMarked = "not_marked"

type ServiceImpl struct {
	rosterProvider employee.RosterProvider
	attendanceRepo attendance.Repository
	timeout        time.Duration
}

func NewRosterService(
	rosterProvider employee.RosterProvider,
	attendanceRepo attendance.Repository,
	persistenceTimeout time.Duration,
) roster.Service {
	return &ServiceImpl{
		rosterProvider: rosterProvider,
		attendanceRepo: attendanceRepo,
		timeout:        persistenceTimeout,
	}
}

// MergeForDate joins a roster with the day's records: one row per
// active employee, in roster order, matched by employee ID. Pure
// function of its inputs.
func MergeForDate(employees []employee.Employee, records []attendance.Record) []roster.Row {
	byEmployee := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}

	rows := make([]roster.Row, 0, len(employees))
	for _, emp := range employees {
		if !emp.Active {
			continue
		}
		rows = append(rows, roster.Row{
			Employee: emp,
			Record:   byEmployee[emp.ID],
		})
	}
	return rows
}

// DayView implements roster.Service.
func (s *ServiceImpl) DayView(ctx context.Context, date string) (roster.DayViewResponse, error) {
	day, valid := validator.IsValidDate(date)
	if !valid {
		return roster.DayViewResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	employees, err := s.rosterProvider.ListActiveEmployees(opCtx)
	if err != nil {
		return roster.DayViewResponse{}, storeErr(ctx, fmt.Errorf("failed to list active employees: %w", err))
	}

	records, err := s.attendanceRepo.ListByDate(opCtx, day)
	if err != nil {
		return roster.DayViewResponse{}, storeErr(ctx, fmt.Errorf("failed to list records for date: %w", err))
	}

	rows := MergeForDate(employees, records)

	responses := make([]roster.RowResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, mapRowToResponse(row))
	}

	return roster.DayViewResponse{
		Date:  day.Format("2006-01-02"),
		Rows:  responses,
		Total: len(responses),
	}, nil
}

func storeErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return attendance.ErrTimeout
	}
	return err
}

func mapRowToResponse(row roster.Row) roster.RowResponse {
	resp := roster.RowResponse{
		EmployeeID:   row.Employee.ID,
		EmployeeName: row.Employee.Name,
		Status:       StatusNotMarked,
	}
	if row.Record != nil {
		record := mapRecord(*row.Record)
		resp.Record = &record
		resp.Status = string(row.Record.Status)
	}
	return resp
}

func mapRecord(record attendance.Record) attendance.RecordResponse {
	punches := make([]attendance.PunchResponse, 0, len(record.Punches))
	for _, punch := range record.Punches {
		punches = append(punches, attendance.PunchResponse{
			ID:        punch.ID,
			Type:      string(punch.Type),
			PunchedAt: punch.PunchedAt.Format(time.RFC3339),
			Note:      punch.Note,
			Location:  punch.Location,
		})
	}
	return attendance.RecordResponse{
		ID:           record.ID,
		EmployeeID:   record.EmployeeID,
		EmployeeName: record.EmployeeName,
		Date:         record.Date.Format("2006-01-02"),
		Status:       string(record.Status),
		Punches:      punches,
		CreatedAt:    record.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
