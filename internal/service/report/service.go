package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/domain/report"
	rosterDomain "github.com/attendly/attendance-backend-go/internal/domain/roster"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/attendly/attendance-backend-go/internal/service/roster"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{"Employee", "Date", "Status", "In Time", "Out Time"}

const timeLayout = "15:04:05"

type ServiceImpl struct {
	rosterProvider employee.RosterProvider
	attendanceRepo attendance.Repository
	timeout        time.Duration
}

func NewReportService(
	rosterProvider employee.RosterProvider,
	attendanceRepo attendance.Repository,
	persistenceTimeout time.Duration,
) report.Service {
	return &ServiceImpl{
		rosterProvider: rosterProvider,
		attendanceRepo: attendanceRepo,
		timeout:        persistenceTimeout,
	}
}

// ExportCSV flattens merged rows into UTF-8 comma-delimited CSV.
// encoding/csv applies standard quoting to fields containing the
// delimiter. Rows without a record export an empty status; rows
// without punches leave the time columns empty.
func ExportCSV(rows []rosterDomain.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Employee.Name, "", "Not Marked", "", ""}
		if row.Record != nil {
			record[1] = row.Record.Date.Format("2006-01-02")
			record[2] = row.Record.Status.Label()
			if in := row.Record.FirstIn(); in != nil {
				record[3] = in.PunchedAt.Format(timeLayout)
			}
			if out := row.Record.LastOut(); out != nil {
				record[4] = out.PunchedAt.Format(timeLayout)
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// DailyAttendanceCSV implements report.Service.
func (s *ServiceImpl) DailyAttendanceCSV(ctx context.Context, date string) (report.AttendanceExport, error) {
	day, valid := validator.IsValidDate(date)
	if !valid {
		return report.AttendanceExport{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	employees, err := s.rosterProvider.ListActiveEmployees(opCtx)
	if err != nil {
		return report.AttendanceExport{}, storeErr(ctx, fmt.Errorf("failed to list active employees: %w", err))
	}

	records, err := s.attendanceRepo.ListByDate(opCtx, day)
	if err != nil {
		return report.AttendanceExport{}, storeErr(ctx, fmt.Errorf("failed to list records for date: %w", err))
	}

	rows := roster.MergeForDate(employees, records)

	data, err := ExportCSV(rows)
	if err != nil {
		return report.AttendanceExport{}, err
	}

	return report.AttendanceExport{
		Filename:    fmt.Sprintf("attendance_%s.csv", day.Format("2006-01-02")),
		ContentType: "text/csv",
		Data:        data,
		RowCount:    len(rows),
	}, nil
}

func storeErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return attendance.ErrTimeout
	}
	return err
}
