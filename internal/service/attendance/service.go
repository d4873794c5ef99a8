package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// maxPunchesPerDay caps the punch sequence under the current
// single-session policy (one IN plus one OUT). Relaxing the policy to
// multiple sessions is a guard change here, not a data migration.
const maxPunchesPerDay = 2

type ServiceImpl struct {
	repo    attendance.Repository
	tx      attendance.TxRunner
	clock   clock.Clock
	timeout time.Duration
	keys    *keyedMutex
}

func NewAttendanceService(
	repo attendance.Repository,
	tx attendance.TxRunner,
	clk clock.Clock,
	persistenceTimeout time.Duration,
) attendance.Service {
	return &ServiceImpl{
		repo:    repo,
		tx:      tx,
		clock:   clk,
		timeout: persistenceTimeout,
		keys:    newKeyedMutex(),
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// storeErr maps a deadline expiry on a store call to ErrTimeout.
// A cancellation coming from the caller is passed through unchanged.
func storeErr(parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return attendance.ErrTimeout
	}
	return err
}

// withDeadline bounds a store round-trip with the configured
// persistence timeout.
func (s *ServiceImpl) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// AppendPunch implements attendance.Service.
func (s *ServiceImpl) AppendPunch(ctx context.Context, req attendance.PunchRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	date = attendance.Day(date)

	punchedAt := s.clock.Now()
	if req.Time != nil && *req.Time != "" {
		t, ok := validator.IsValidDateTime(*req.Time)
		if !ok {
			return attendance.RecordResponse{}, validator.ValidationErrors{{
				Field:   "time",
				Message: "time must be an RFC3339 timestamp",
			}}
		}
		punchedAt = t.UTC()
	}

	unlock := s.keys.Lock(dayKey(req.EmployeeID, date))
	defer unlock()

	if err := ctx.Err(); err != nil {
		return attendance.RecordResponse{}, err
	}

	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	var result attendance.Record
	err := s.tx.WithinTransaction(opCtx, func(txCtx context.Context) error {
		record, err := s.repo.GetByEmployeeAndDate(txCtx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		if record != nil && record.Status != attendance.StatusPresent {
			// Absent/on-leave days carry no punches; corrections go
			// through UpdateRecord.
			return attendance.ErrAlreadyMarked
		}

		// The punch is validated before the implicit create: a
		// rejected punch must leave no record behind.
		var current attendance.Record
		if record != nil {
			current = *record
		}
		if err := validatePunch(current, attendance.PunchType(req.Type)); err != nil {
			return err
		}

		if record == nil {
			created, err := s.repo.Create(txCtx, attendance.Record{
				ID:           uuid.NewString(),
				EmployeeID:   req.EmployeeID,
				EmployeeName: req.EmployeeName,
				Date:         date,
				Status:       attendance.StatusPresent,
			})
			if err != nil {
				return err
			}
			record = &created
		}

		punch := attendance.Punch{
			ID:        uuid.NewString(),
			Type:      attendance.PunchType(req.Type),
			PunchedAt: punchedAt,
			Note:      req.Note,
			Location:  req.Location,
		}
		if err := s.repo.AppendPunch(txCtx, record.ID, punch); err != nil {
			return err
		}

		updated, err := s.repo.GetByID(txCtx, record.ID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}

	return mapRecordToResponse(result), nil
}

// validatePunch enforces IN/OUT alternation and the single-session
// cap against the record's current punch sequence.
func validatePunch(record attendance.Record, punchType attendance.PunchType) error {
	if len(record.Punches) >= maxPunchesPerDay || record.SessionClosed() {
		return attendance.ErrSessionAlreadyClosed
	}

	expected := attendance.PunchIn
	if n := len(record.Punches); n > 0 && record.Punches[n-1].Type == attendance.PunchIn {
		expected = attendance.PunchOut
	}
	if punchType != expected {
		return fmt.Errorf("expected %s punch: %w", expected, attendance.ErrInvalidPunchSequence)
	}

	return nil
}

// QuickMark implements attendance.Service.
func (s *ServiceImpl) QuickMark(ctx context.Context, req attendance.QuickMarkRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	date = attendance.Day(date)

	unlock := s.keys.Lock(dayKey(req.EmployeeID, date))
	defer unlock()

	if err := ctx.Err(); err != nil {
		return attendance.RecordResponse{}, err
	}

	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	var result attendance.Record
	err := s.tx.WithinTransaction(opCtx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByEmployeeAndDate(txCtx, req.EmployeeID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			return attendance.ErrAlreadyMarked
		}

		created, err := s.repo.Create(txCtx, attendance.Record{
			ID:           uuid.NewString(),
			EmployeeID:   req.EmployeeID,
			EmployeeName: req.EmployeeName,
			Date:         date,
			Status:       attendance.Status(req.Status),
		})
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}

	return mapRecordToResponse(result), nil
}

// UpdateRecord implements attendance.Service.
func (s *ServiceImpl) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	lookupCtx, cancelLookup := s.withDeadline(ctx)
	current, err := s.repo.GetByID(lookupCtx, req.ID)
	cancelLookup()
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}

	unlock := s.keys.Lock(dayKey(current.EmployeeID, current.Date))
	defer unlock()

	if err := ctx.Err(); err != nil {
		return attendance.RecordResponse{}, err
	}

	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	var result attendance.Record
	err = s.tx.WithinTransaction(opCtx, func(txCtx context.Context) error {
		record, err := s.repo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		status := record.Status
		if req.Status != nil {
			status = attendance.Status(*req.Status)
		}

		// Leaving present invalidates the punch sequence.
		clearPunches := record.Status == attendance.StatusPresent && status != attendance.StatusPresent

		if err := s.repo.UpdateStatus(txCtx, record.ID, status, clearPunches); err != nil {
			return err
		}

		if req.EmployeeName != nil {
			if err := s.repo.UpdateEmployeeName(txCtx, record.ID, *req.EmployeeName); err != nil {
				return err
			}
		}

		updated, err := s.repo.GetByID(txCtx, record.ID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}

	return mapRecordToResponse(result), nil
}

// DeleteRecord implements attendance.Service.
func (s *ServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	lookupCtx, cancelLookup := s.withDeadline(ctx)
	current, err := s.repo.GetByID(lookupCtx, id)
	cancelLookup()
	if err != nil {
		return storeErr(ctx, err)
	}

	unlock := s.keys.Lock(dayKey(current.EmployeeID, current.Date))
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	err = s.tx.WithinTransaction(opCtx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	return storeErr(ctx, err)
}

// GetRecord implements attendance.Service.
func (s *ServiceImpl) GetRecord(ctx context.Context, id string) (attendance.RecordResponse, error) {
	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	record, err := s.repo.GetByID(opCtx, id)
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}

	return mapRecordToResponse(record), nil
}

// GetForEmployeeDate implements attendance.Service.
func (s *ServiceImpl) GetForEmployeeDate(ctx context.Context, employeeID, date string) (attendance.RecordResponse, error) {
	day, ok := parseDay(date)
	if !ok {
		return attendance.RecordResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	opCtx, cancel := s.withDeadline(ctx)
	defer cancel()

	record, err := s.repo.GetByEmployeeAndDate(opCtx, employeeID, day)
	if err != nil {
		return attendance.RecordResponse{}, storeErr(ctx, err)
	}
	if record == nil {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}

	return mapRecordToResponse(*record), nil
}

func parseDay(date string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return attendance.Day(t), true
}

// mapRecordToResponse converts a Record entity to RecordResponse
func mapRecordToResponse(record attendance.Record) attendance.RecordResponse {
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
