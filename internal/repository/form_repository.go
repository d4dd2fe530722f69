package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/formtrack/formtrack-api/internal/models"
)

// FormRepository manages read access to forms. The attendance subsystem
// never mutates a form.
type FormRepository struct {
	db *sqlx.DB
}

// NewFormRepository constructs a FormRepository.
func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

// FindByID fetches a form by ID.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*models.Form, error) {
	const query = `SELECT id, owner_id, topic, status, fields, created_at, updated_at
        FROM forms WHERE id = $1`
	var form models.Form
	if err := r.db.GetContext(ctx, &form, query, id); err != nil {
		return nil, err
	}
	return &form, nil
}

// ListByOwner returns all forms owned by the given account.
func (r *FormRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	const query = `SELECT id, owner_id, topic, status, fields, created_at, updated_at
        FROM forms WHERE owner_id = $1 ORDER BY created_at DESC`
	var forms []models.Form
	if err := r.db.SelectContext(ctx, &forms, query, ownerID); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}
