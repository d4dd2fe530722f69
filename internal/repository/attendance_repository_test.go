package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/formtrack/formtrack-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var attendanceColumns = []string{"id", "form_id", "student_id", "date", "status", "session_label", "marked_at", "marked_by", "note", "created_at", "updated_at"}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(attendanceColumns).
		AddRow("att-1", "form-1", "stu-1", date, models.AttendanceStatusPresent, "Session 2024-01-10", now, "owner-1", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (form_id, student_id, date)")).
		WillReturnRows(rows)

	stored, err := repo.Upsert(context.Background(), &models.AttendanceRecord{
		FormID:       "form-1",
		StudentID:    "stu-1",
		Date:         date,
		Status:       models.AttendanceStatusPresent,
		SessionLabel: "Session 2024-01-10",
		MarkedAt:     now,
		MarkedBy:     "owner-1",
	})
	require.NoError(t, err)
	require.Equal(t, "att-1", stored.ID)
	require.Equal(t, models.AttendanceStatusPresent, stored.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	record := &models.AttendanceRecord{FormID: "form-1", StudentID: "stu-1", Date: date, Status: models.AttendanceStatusLate, MarkedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).
			AddRow("att-9", "form-1", "stu-1", date, models.AttendanceStatusLate, "", now, "", nil, now, now))

	_, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	require.NotEmpty(t, record.ID, "a fresh record gets a generated id before insert")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListScopesToOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(attendanceColumns).
		AddRow("att-1", "form-1", "stu-1", date, models.AttendanceStatusPresent, "Session 2024-01-10", now, "owner-1", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN forms f ON f.id = ar.form_id") + ".*" + regexp.QuoteMeta("f.owner_id = $1")).
		WithArgs("owner-1").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.AttendanceFilter{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	status := models.AttendanceStatusLate
	mock.ExpectQuery(regexp.QuoteMeta("ar.form_id = $2") + ".*" + regexp.QuoteMeta("ar.status = $3")).
		WithArgs("owner-1", "form-1", status).
		WillReturnRows(sqlmock.NewRows(attendanceColumns))

	records, err := repo.List(context.Background(), models.AttendanceFilter{
		OwnerID: "owner-1",
		FormID:  "form-1",
		Status:  &status,
	})
	require.NoError(t, err)
	require.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}
