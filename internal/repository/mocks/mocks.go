// Package mocks provides testify mocks for the repository contracts,
// used where tests need to inject failures that the in-memory
// implementations cannot produce.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/employee"
)

type AttendanceRepository struct {
	mock.Mock
}

func (m *AttendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(attendance.Record), args.Error(1)
}

func (m *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(attendance.Record), args.Error(1)
}

func (m *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	args := m.Called(ctx, employeeID, date)
	if record, ok := args.Get(0).(*attendance.Record); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, clearPunches bool) error {
	args := m.Called(ctx, id, status, clearPunches)
	return args.Error(0)
}

func (m *AttendanceRepository) UpdateEmployeeName(ctx context.Context, id string, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *AttendanceRepository) AppendPunch(ctx context.Context, recordID string, punch attendance.Punch) error {
	args := m.Called(ctx, recordID, punch)
	return args.Error(0)
}

func (m *AttendanceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	args := m.Called(ctx, date)
	if records, ok := args.Get(0).([]attendance.Record); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttendanceRepository) ListRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	args := m.Called(ctx, from, to)
	if records, ok := args.Get(0).([]attendance.Record); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]attendance.Record); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

type RosterProvider struct {
	mock.Mock
}

func (m *RosterProvider) ListActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	args := m.Called(ctx)
	if employees, ok := args.Get(0).([]employee.Employee); ok {
		return employees, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterProvider) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(employee.Employee), args.Error(1)
}
