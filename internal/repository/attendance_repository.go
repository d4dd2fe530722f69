package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formtrack/formtrack-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts or updates the attendance record for its
// (form_id, student_id, date) key. The database constraint makes the write
// atomic, so two near-simultaneous marks for the same key converge on a
// single row with the last writer's status.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance_records (id, form_id, student_id, date, status, session_label, marked_at, marked_by, note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (form_id, student_id, date)
DO UPDATE SET status = EXCLUDED.status, marked_at = EXCLUDED.marked_at, marked_by = EXCLUDED.marked_by, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
RETURNING id, form_id, student_id, date, status, session_label, marked_at, marked_by, note, created_at, updated_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.FormID, record.StudentID, record.Date, record.Status,
		record.SessionLabel, record.MarkedAt, record.MarkedBy, record.Note,
		record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance record: %w", err)
	}
	return &stored, nil
}

// List returns attendance records matching the provided filter, always scoped
// to the owning account via the forms join and ordered by ascending date.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	base := `FROM attendance_records ar JOIN forms f ON f.id = ar.form_id`
	where := []string{"f.owner_id = $1"}
	args := []interface{}{filter.OwnerID}
	if filter.FormID != "" {
		where = append(where, fmt.Sprintf("ar.form_id = $%d", len(args)+1))
		args = append(args, filter.FormID)
	}
	if filter.StudentID != "" {
		where = append(where, fmt.Sprintf("ar.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("ar.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("ar.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("ar.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	query := fmt.Sprintf(`SELECT ar.id, ar.form_id, ar.student_id, ar.date, ar.status, ar.session_label, ar.marked_at, ar.marked_by, ar.note, ar.created_at, ar.updated_at
        %s WHERE %s
        ORDER BY ar.date ASC, ar.marked_at ASC`, base, strings.Join(where, " AND "))

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return rows, nil
}
