package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
)

type AttendanceJobs struct {
	attendanceSvc  attendance.Service
	attendanceRepo attendance.Repository
	rosterProvider employee.RosterProvider
	clock          clock.Clock
}

func NewAttendanceJobs(
	attendanceSvc attendance.Service,
	attendanceRepo attendance.Repository,
	rosterProvider employee.RosterProvider,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc:  attendanceSvc,
		attendanceRepo: attendanceRepo,
		rosterProvider: rosterProvider,
		clock:          clk,
	}
}

// RegisterJobs registers all attendance jobs with the scheduler
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark-absent-employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees backfills an Absent record for every active
// employee who has no record for the previous day. Running it more
// than once per day is harmless because existing records are left
// untouched.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := attendance.Day(j.clock.Now().AddDate(0, 0, -1))

	employees, err := j.rosterProvider.ListActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("list active employees: %w", err)
	}

	records, err := j.attendanceRepo.ListByDate(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("list records for %s: %w", yesterday.Format("2006-01-02"), err)
	}

	marked := make(map[string]bool, len(records))
	for _, record := range records {
		marked[record.EmployeeID] = true
	}

	var markedCount int
	for _, emp := range employees {
		if marked[emp.ID] {
			continue
		}

		req := attendance.QuickMarkRequest{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Date:         yesterday.Format("2006-01-02"),
			Status:       string(attendance.StatusAbsent),
		}
		if _, err := j.attendanceSvc.QuickMark(ctx, req); err != nil {
			// A concurrent mark between the list and this call is not a failure.
			if errors.Is(err, attendance.ErrAlreadyMarked) || errors.Is(err, attendance.ErrConflict) {
				continue
			}
			slog.Error("Failed to mark employee absent", "employee_id", emp.ID, "date", req.Date, "error", err)
			continue
		}
		markedCount++
	}

	if markedCount > 0 {
		slog.Info("Marked unrecorded employees absent", "date", yesterday.Format("2006-01-02"), "count", markedCount)
	}
	return nil
}
