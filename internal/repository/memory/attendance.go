// Package memory holds in-memory implementations of the repository
// contracts. They back the service tests and double as a storage
// engine for single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	byID    map[string]*attendance.Record
	byKey   map[string]string // employeeID|date -> record ID
	nextSeq map[string]int
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		byID:    make(map[string]*attendance.Record),
		byKey:   make(map[string]string),
		nextSeq: make(map[string]int),
	}
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + attendance.Day(date).Format("2006-01-02")
}

func cloneRecord(record attendance.Record) attendance.Record {
	punches := make([]attendance.Punch, len(record.Punches))
	copy(punches, record.Punches)
	record.Punches = punches
	return record
}

// Create implements attendance.Repository.
func (r *AttendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(record.EmployeeID, record.Date)
	if _, exists := r.byKey[k]; exists {
		return attendance.Record{}, attendance.ErrConflict
	}

	now := time.Now().UTC()
	record.Date = attendance.Day(record.Date)
	record.CreatedAt = now
	record.UpdatedAt = now
	for i := range record.Punches {
		record.Punches[i].Seq = i + 1
	}
	r.nextSeq[record.ID] = len(record.Punches)

	stored := cloneRecord(record)
	r.byID[record.ID] = &stored
	r.byKey[k] = record.ID

	return record, nil
}

// GetByID implements attendance.Repository.
func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return cloneRecord(*record), nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	record := cloneRecord(*r.byID[id])
	return &record, nil
}

// UpdateStatus implements attendance.Repository.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, clearPunches bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now().UTC()
	if clearPunches {
		record.Punches = nil
		r.nextSeq[id] = 0
	}
	return nil
}

// UpdateEmployeeName implements attendance.Repository.
func (r *AttendanceRepository) UpdateEmployeeName(ctx context.Context, id string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	record.EmployeeName = name
	record.UpdatedAt = time.Now().UTC()
	return nil
}

// AppendPunch implements attendance.Repository.
func (r *AttendanceRepository) AppendPunch(ctx context.Context, recordID string, punch attendance.Punch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[recordID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	r.nextSeq[recordID]++
	punch.Seq = r.nextSeq[recordID]
	record.Punches = append(record.Punches, punch)
	record.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements attendance.Repository.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	delete(r.byKey, key(record.EmployeeID, record.Date))
	delete(r.byID, id)
	delete(r.nextSeq, id)
	return nil
}

// ListByDate implements attendance.Repository.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	day := attendance.Day(date)
	return r.listWhere(ctx, func(record attendance.Record) bool {
		return record.Date.Equal(day)
	})
}

// ListRange implements attendance.Repository.
func (r *AttendanceRepository) ListRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	start, end := attendance.Day(from), attendance.Day(to)
	return r.listWhere(ctx, func(record attendance.Record) bool {
		return !record.Date.Before(start) && !record.Date.After(end)
	})
}

// ListAll implements attendance.Repository.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	return r.listWhere(ctx, func(attendance.Record) bool { return true })
}

func (r *AttendanceRepository) listWhere(ctx context.Context, keep func(attendance.Record) bool) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []attendance.Record
	for _, record := range r.byID {
		if keep(*record) {
			records = append(records, cloneRecord(*record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})
	return records, nil
}

// TxRunner satisfies attendance.TxRunner without real transactions;
// the repository's own locking keeps single statements atomic.
type TxRunner struct{}

func (TxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
