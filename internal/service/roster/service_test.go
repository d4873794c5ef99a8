package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/attendly/attendance-backend-go/internal/repository/memory"
	"github.com/attendly/attendance-backend-go/internal/repository/mocks"
)

func day(date string) time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return t
}

func TestMergeForDate_EmptyDay(t *testing.T) {
	employees := []employee.Employee{
		{ID: "emp-1", Name: "Alice", Active: true},
		{ID: "emp-2", Name: "Bob", Active: true},
	}

	rows := MergeForDate(employees, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Employee.Name)
	assert.Nil(t, rows[0].Record)
	assert.Equal(t, "Bob", rows[1].Employee.Name)
	assert.Nil(t, rows[1].Record)
}

func TestMergeForDate_MatchesByEmployeeID(t *testing.T) {
	employees := []employee.Employee{
		{ID: "emp-1", Name: "Alice", Active: true},
		{ID: "emp-2", Name: "Bob", Active: true},
		{ID: "emp-3", Name: "Carol", Active: true},
	}
	records := []attendance.Record{
		{ID: "rec-2", EmployeeID: "emp-2", Date: day("2025-06-16"), Status: attendance.StatusAbsent},
		{ID: "rec-1", EmployeeID: "emp-1", Date: day("2025-06-16"), Status: attendance.StatusPresent},
	}

	rows := MergeForDate(employees, records)

	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].Record)
	assert.Equal(t, "rec-1", rows[0].Record.ID)
	require.NotNil(t, rows[1].Record)
	assert.Equal(t, "rec-2", rows[1].Record.ID)
	assert.Nil(t, rows[2].Record)
}

func TestMergeForDate_SkipsInactiveEmployees(t *testing.T) {
	employees := []employee.Employee{
		{ID: "emp-1", Name: "Alice", Active: true},
		{ID: "emp-2", Name: "Bob", Active: false},
	}

	rows := MergeForDate(employees, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, "emp-1", rows[0].Employee.ID)
}

func TestDayView(t *testing.T) {
	employeeRepo := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", Name: "Alice", Active: true},
		employee.Employee{ID: "emp-2", Name: "Bob", Active: true},
	)
	attendanceRepo := memory.NewAttendanceRepository()

	_, err := attendanceRepo.Create(context.Background(), attendance.Record{
		ID:         "rec-1",
		EmployeeID: "emp-1",
		Date:       day("2025-06-16"),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	svc := NewRosterService(employeeRepo, attendanceRepo, 5*time.Second)

	view, err := svc.DayView(context.Background(), "2025-06-16")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-16", view.Date)
	assert.Equal(t, 2, view.Total)
	require.Len(t, view.Rows, 2)

	assert.Equal(t, "present", view.Rows[0].Status)
	require.NotNil(t, view.Rows[0].Record)
	assert.Equal(t, "rec-1", view.Rows[0].Record.ID)

	assert.Equal(t, StatusNotMarked, view.Rows[1].Status)
	assert.Nil(t, view.Rows[1].Record)
}

func TestDayView_InvalidDate(t *testing.T) {
	svc := NewRosterService(memory.NewEmployeeRepository(), memory.NewAttendanceRepository(), 5*time.Second)

	_, err := svc.DayView(context.Background(), "June 16")
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestDayView_StoreFailurePropagates(t *testing.T) {
	employeeRepo := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", Name: "Alice", Active: true},
	)
	attendanceRepo := new(mocks.AttendanceRepository)
	attendanceRepo.On("ListByDate", mock.Anything, day("2025-06-16")).
		Return(nil, errors.New("connection refused"))

	svc := NewRosterService(employeeRepo, attendanceRepo, 5*time.Second)

	_, err := svc.DayView(context.Background(), "2025-06-16")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	attendanceRepo.AssertExpectations(t)
}

func TestDayView_StoreDeadlineMapsToTimeout(t *testing.T) {
	employeeRepo := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", Name: "Alice", Active: true},
	)
	attendanceRepo := new(mocks.AttendanceRepository)
	attendanceRepo.On("ListByDate", mock.Anything, day("2025-06-16")).
		Return(nil, context.DeadlineExceeded)

	svc := NewRosterService(employeeRepo, attendanceRepo, 5*time.Second)

	_, err := svc.DayView(context.Background(), "2025-06-16")
	assert.ErrorIs(t, err, attendance.ErrTimeout)
}

func TestDayView_EmptyRoster(t *testing.T) {
	svc := NewRosterService(memory.NewEmployeeRepository(), memory.NewAttendanceRepository(), 5*time.Second)

	view, err := svc.DayView(context.Background(), "2025-06-16")
	require.NoError(t, err)
	assert.Zero(t, view.Total)
	assert.Empty(t, view.Rows)
}
