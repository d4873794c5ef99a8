package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
)

var testDB *database.DB

const testSchema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	id UUID PRIMARY KEY,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	date DATE NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (employee_id, date)
);
CREATE TABLE IF NOT EXISTS attendance_punches (
	id UUID PRIMARY KEY,
	record_id UUID NOT NULL REFERENCES attendance_records(id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	punched_at TIMESTAMPTZ NOT NULL,
	note TEXT,
	location TEXT,
	seq INT NOT NULL,
	UNIQUE (record_id, seq)
);
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// setupTestDB connects once per package run; tests are skipped when
// no test database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	if testDB == nil {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		require.NoError(t, err, "failed to connect to test database")

		_, err = testDB.Exec(context.Background(), testSchema)
		require.NoError(t, err, "failed to create test schema")
	}
	return testDB
}

func truncateAttendanceTables(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "TRUNCATE TABLE attendance_punches, attendance_records CASCADE")
	require.NoError(t, err)
}

func newRecord(employeeID, name, date string) attendance.Record {
	day, _ := time.Parse("2006-01-02", date)
	return attendance.Record{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		EmployeeName: name,
		Date:         day,
		Status:       attendance.StatusPresent,
	}
}

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", fetched.EmployeeID)
	assert.Equal(t, attendance.StatusPresent, fetched.Status)
	assert.Empty(t, fetched.Punches)

	byDate, err := repo.GetByEmployeeAndDate(ctx, "emp-1", created.Date)
	require.NoError(t, err)
	require.NotNil(t, byDate)
	assert.Equal(t, created.ID, byDate.ID)

	missing, err := repo.GetByEmployeeAndDate(ctx, "emp-1", created.Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_DuplicateDayConflict(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	assert.ErrorIs(t, err, attendance.ErrConflict)
}

func TestAttendanceRepository_AppendPunchSequencing(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	require.NoError(t, err)

	in := attendance.Punch{ID: uuid.NewString(), Type: attendance.PunchIn, PunchedAt: time.Now().UTC()}
	out := attendance.Punch{ID: uuid.NewString(), Type: attendance.PunchOut, PunchedAt: time.Now().UTC()}
	require.NoError(t, repo.AppendPunch(ctx, created.ID, in))
	require.NoError(t, repo.AppendPunch(ctx, created.ID, out))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Punches, 2)
	assert.Equal(t, 1, fetched.Punches[0].Seq)
	assert.Equal(t, attendance.PunchIn, fetched.Punches[0].Type)
	assert.Equal(t, 2, fetched.Punches[1].Seq)
	assert.Equal(t, attendance.PunchOut, fetched.Punches[1].Type)
}

func TestAttendanceRepository_UpdateStatusClearsPunches(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	require.NoError(t, err)
	punch := attendance.Punch{ID: uuid.NewString(), Type: attendance.PunchIn, PunchedAt: time.Now().UTC()}
	require.NoError(t, repo.AppendPunch(ctx, created.ID, punch))

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, attendance.StatusOnLeave, true))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, fetched.Status)
	assert.Empty(t, fetched.Punches)
}

func TestAttendanceRepository_ListByDateAndRange(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	for _, seed := range []struct{ employeeID, date string }{
		{"emp-1", "2025-06-16"},
		{"emp-2", "2025-06-16"},
		{"emp-1", "2025-06-18"},
	} {
		_, err := repo.Create(ctx, newRecord(seed.employeeID, seed.employeeID, seed.date))
		require.NoError(t, err)
	}

	day, _ := time.Parse("2006-01-02", "2025-06-16")
	records, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	from, _ := time.Parse("2006-01-02", "2025-06-01")
	to, _ := time.Parse("2006-01-02", "2025-06-30")
	records, err = repo.ListRange(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestAttendanceRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	truncateAttendanceTables(t, db)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("emp-1", "Alice", "2025-06-16"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}
