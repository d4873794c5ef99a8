package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/clock"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/attendly/attendance-backend-go/internal/repository/memory"
)

var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

func newTestService() (attendance.Service, *memory.AttendanceRepository) {
	repo := memory.NewAttendanceRepository()
	svc := NewAttendanceService(repo, memory.TxRunner{}, clock.Fixed{At: testNow}, 5*time.Second)
	return svc, repo
}

func strPtr(s string) *string { return &s }

func TestAppendPunch_CreatesPresentRecord(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	require.NoError(t, err)

	assert.Equal(t, "present", result.Status)
	assert.Equal(t, "2025-06-16", result.Date)
	require.Len(t, result.Punches, 1)
	assert.Equal(t, "IN", result.Punches[0].Type)
	assert.Equal(t, testNow.Format(time.RFC3339), result.Punches[0].PunchedAt)
}

func TestAppendPunch_FullDayLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
		Time:         strPtr("2025-06-16T09:00:00Z"),
	}
	result, err := svc.AppendPunch(ctx, in)
	require.NoError(t, err)
	require.Len(t, result.Punches, 1)

	out := in
	out.Type = "OUT"
	out.Time = strPtr("2025-06-16T17:00:00Z")
	result, err = svc.AppendPunch(ctx, out)
	require.NoError(t, err)
	require.Len(t, result.Punches, 2)
	assert.Equal(t, "2025-06-16T09:00:00Z", result.Punches[0].PunchedAt)
	assert.Equal(t, "2025-06-16T17:00:00Z", result.Punches[1].PunchedAt)

	// The session is closed; any further punch is rejected.
	third := in
	third.Time = strPtr("2025-06-16T18:00:00Z")
	_, err = svc.AppendPunch(ctx, third)
	assert.ErrorIs(t, err, attendance.ErrSessionAlreadyClosed)
}

func TestAppendPunch_Alternation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// First punch of the day must be IN.
	_, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "OUT",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidPunchSequence)

	_, err = svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	require.NoError(t, err)

	// IN while a session is open is rejected.
	_, err = svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidPunchSequence)
}

func TestAppendPunch_RejectedFirstPunchLeavesNoRecord(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	_, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "OUT",
	})
	require.ErrorIs(t, err, attendance.ErrInvalidPunchSequence)

	// A rejected punch must not create an implicit record.
	record, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Nil(t, record)

	// The day is still open for a valid first punch.
	result, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	require.NoError(t, err)
	assert.Equal(t, "present", result.Status)
}

func TestAppendPunch_MalformedTimeRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
		Time:         strPtr("16-06-2025 09:00"),
	})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "time")
}

func TestAppendPunch_RejectedOnNonPresentRecord(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "absent",
	})
	require.NoError(t, err)

	_, err = svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
}

func TestAppendPunch_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AppendPunch(context.Background(), attendance.PunchRequest{
		EmployeeName: "Alice",
		Date:         "16-06-2025",
		Type:         "SIDEWAYS",
	})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	details := validationErrs.ToMap()
	assert.Contains(t, details, "employee_id")
	assert.Contains(t, details, "date")
	assert.Contains(t, details, "type")
}

func TestAppendPunch_IndependentDays(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, date := range []string{"2025-06-16", "2025-06-17"} {
		result, err := svc.AppendPunch(ctx, attendance.PunchRequest{
			EmployeeID:   "emp-1",
			EmployeeName: "Alice",
			Date:         date,
			Type:         "IN",
		})
		require.NoError(t, err)
		assert.Equal(t, date, result.Date)
		assert.Len(t, result.Punches, 1)
	}
}

func TestQuickMark_CreationOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "on_leave",
	})
	require.NoError(t, err)
	assert.Equal(t, "on_leave", result.Status)
	assert.Empty(t, result.Punches)

	_, err = svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "present",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
}

func TestQuickMark_ConcurrentSameDay(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.QuickMark(ctx, attendance.QuickMarkRequest{
				EmployeeID:   "emp-1",
				EmployeeName: "Alice",
				Date:         "2025-06-16",
				Status:       "absent",
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestUpdateRecord_LeavingPresentClearsPunches(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	require.NoError(t, err)
	require.Len(t, created.Punches, 1)

	updated, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:     created.ID,
		Status: strPtr("on_leave"),
	})
	require.NoError(t, err)
	assert.Equal(t, "on_leave", updated.Status)
	assert.Empty(t, updated.Punches)

	// Returning to present does not resurrect the old punches.
	updated, err = svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:     created.ID,
		Status: strPtr("present"),
	})
	require.NoError(t, err)
	assert.Equal(t, "present", updated.Status)
	assert.Empty(t, updated.Punches)
}

func TestUpdateRecord_RenamesEmployee(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "present",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:           created.ID,
		EmployeeName: strPtr("Alice Smith"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", updated.EmployeeName)
	assert.Equal(t, "present", updated.Status)

	// Survives a reload.
	fetched, err := svc.GetRecord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", fetched.EmployeeName)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{
		ID:     "missing",
		Status: strPtr("absent"),
	})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "present",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecord(ctx, created.ID))

	_, err = svc.GetRecord(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	// The day is free again.
	_, err = svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "absent",
	})
	assert.NoError(t, err)
}

func TestGetForEmployeeDate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetForEmployeeDate(ctx, "emp-1", "not-a-date")
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)

	_, err = svc.GetForEmployeeDate(ctx, "emp-1", "2025-06-16")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	_, err = svc.QuickMark(ctx, attendance.QuickMarkRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Status:       "present",
	})
	require.NoError(t, err)

	result, err := svc.GetForEmployeeDate(ctx, "emp-1", "2025-06-16")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", result.EmployeeID)
}

func TestCancelledContextPassesThrough(t *testing.T) {
	svc, _ := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AppendPunch(ctx, attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, attendance.ErrTimeout))
}

func TestStoreTimeoutMapsToErrTimeout(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	svc := NewAttendanceService(slowRepo{repo}, memory.TxRunner{}, clock.Fixed{At: testNow}, time.Millisecond)

	_, err := svc.AppendPunch(context.Background(), attendance.PunchRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Alice",
		Date:         "2025-06-16",
		Type:         "IN",
	})
	assert.ErrorIs(t, err, attendance.ErrTimeout)
}

// slowRepo delays reads past any reasonable persistence timeout.
type slowRepo struct {
	*memory.AttendanceRepository
}

func (s slowRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}
	return s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
}
