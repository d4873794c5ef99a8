package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const uniqueViolation = "23505"

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (id, employee_id, employee_name, date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.EmployeeName,
		record.Date,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the (employee_id, date) insert race.
			return attendance.Record{}, attendance.ErrConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	for _, punch := range record.Punches {
		if err := a.AppendPunch(ctx, record.ID, punch); err != nil {
			return attendance.Record{}, err
		}
	}

	return record, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, employee_name, date, status, created_at, updated_at
		FROM attendance_records
		WHERE id = $1
	`

	var record attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.EmployeeName,
		&record.Date, &record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	if err := a.loadPunches(ctx, q, map[string]*attendance.Record{record.ID: &record}); err != nil {
		return attendance.Record{}, err
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, employee_name, date, status, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
		LIMIT 1
	`

	var record attendance.Record
	err := q.QueryRow(ctx, query, employeeID, attendance.Day(date)).Scan(
		&record.ID, &record.EmployeeID, &record.EmployeeName,
		&record.Date, &record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record yet for this employee and day
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	if err := a.loadPunches(ctx, q, map[string]*attendance.Record{record.ID: &record}); err != nil {
		return nil, err
	}

	return &record, nil
}

// UpdateStatus implements attendance.Repository.
func (a *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, clearPunches bool) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, status, time.Now().UTC(), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance status: %w", err)
	}

	if clearPunches {
		if _, err := q.Exec(ctx, `DELETE FROM attendance_punches WHERE record_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear punches: %w", err)
		}
	}

	return nil
}

// UpdateEmployeeName implements attendance.Repository.
func (a *attendanceRepository) UpdateEmployeeName(ctx context.Context, id string, name string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET employee_name = $1, updated_at = $2
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, name, time.Now().UTC(), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update employee name: %w", err)
	}

	return nil
}

// AppendPunch implements attendance.Repository.
func (a *attendanceRepository) AppendPunch(ctx context.Context, recordID string, punch attendance.Punch) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_punches (id, record_id, type, punched_at, note, location, seq)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM attendance_punches WHERE record_id = $2))
	`

	_, err := q.Exec(ctx, query,
		punch.ID, recordID, punch.Type, punch.PunchedAt, punch.Note, punch.Location,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Two appends raced to the same seq slot.
			return attendance.ErrConflict
		}
		return fmt.Errorf("failed to append punch: %w", err)
	}

	if _, err := q.Exec(ctx,
		`UPDATE attendance_records SET updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), recordID,
	); err != nil {
		return fmt.Errorf("failed to touch attendance record: %w", err)
	}

	return nil
}

// Delete implements attendance.Repository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, `DELETE FROM attendance_punches WHERE record_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete punches: %w", err)
	}

	commandTag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListByDate implements attendance.Repository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	day := attendance.Day(date)
	return a.list(ctx, `WHERE date = $1`, day)
}

// ListRange implements attendance.Repository.
func (a *attendanceRepository) ListRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return a.list(ctx, `WHERE date >= $1 AND date <= $2`, attendance.Day(from), attendance.Day(to))
}

// ListAll implements attendance.Repository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	return a.list(ctx, ``)
}

func (a *attendanceRepository) list(ctx context.Context, where string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, employee_name, date, status, created_at, updated_at
		FROM attendance_records
	` + where + `
		ORDER BY date, employee_id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	byID := make(map[string]*attendance.Record)
	for rows.Next() {
		var record attendance.Record
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.EmployeeName,
			&record.Date, &record.Status, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	for i := range records {
		byID[records[i].ID] = &records[i]
	}
	if err := a.loadPunches(ctx, q, byID); err != nil {
		return nil, err
	}

	return records, nil
}

// loadPunches attaches each record's punch sequence, ordered by seq.
func (a *attendanceRepository) loadPunches(ctx context.Context, q database.Querier, byID map[string]*attendance.Record) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, record_id, type, punched_at, note, location, seq
		FROM attendance_punches
		WHERE record_id = ANY($1)
		ORDER BY record_id, seq
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var punch attendance.Punch
		var recordID string
		err := rows.Scan(
			&punch.ID, &recordID, &punch.Type, &punch.PunchedAt,
			&punch.Note, &punch.Location, &punch.Seq,
		)
		if err != nil {
			return fmt.Errorf("failed to scan punch: %w", err)
		}
		if record, ok := byID[recordID]; ok {
			record.Punches = append(record.Punches, punch)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate punches: %w", err)
	}

	return nil
}
