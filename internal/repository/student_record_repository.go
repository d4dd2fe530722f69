package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formtrack/formtrack-api/internal/models"
)

// StudentRecordRepository manages persistence for registered participants.
type StudentRecordRepository struct {
	db *sqlx.DB
}

// NewStudentRecordRepository constructs a StudentRecordRepository.
func NewStudentRecordRepository(db *sqlx.DB) *StudentRecordRepository {
	return &StudentRecordRepository{db: db}
}

// FindByFormAndID fetches a student record scoped to its owning form.
func (r *StudentRecordRepository) FindByFormAndID(ctx context.Context, formID, id string) (*models.StudentRecord, error) {
	const query = `SELECT id, form_id, attributes, created_at, updated_at
        FROM student_records WHERE form_id = $1 AND id = $2`
	var record models.StudentRecord
	if err := r.db.GetContext(ctx, &record, query, formID, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByForm returns every student record registered under a form.
func (r *StudentRecordRepository) ListByForm(ctx context.Context, formID string) ([]models.StudentRecord, error) {
	const query = `SELECT id, form_id, attributes, created_at, updated_at
        FROM student_records WHERE form_id = $1 ORDER BY created_at ASC`
	var records []models.StudentRecord
	if err := r.db.SelectContext(ctx, &records, query, formID); err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	return records, nil
}

// BulkCreate inserts imported registrations in one transaction.
func (r *StudentRecordRepository) BulkCreate(ctx context.Context, records []models.StudentRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student import: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	const query = `INSERT INTO student_records (id, form_id, attributes, created_at, updated_at)
        VALUES (:id, :form_id, :attributes, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("import student record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student import: %w", err)
	}
	committed = true
	return nil
}
