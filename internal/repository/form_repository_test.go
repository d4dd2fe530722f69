package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/formtrack/formtrack-api/internal/models"
)

var formColumns = []string{"id", "owner_id", "topic", "status", "fields", "created_at", "updated_at"}

func TestFormRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFormRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(formColumns).
		AddRow("form-1", "owner-1", "Go Workshop", models.FormStatusActive, []byte(`[{"name":"name","label":"Name","type":"text"}]`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM forms WHERE id = $1")).
		WithArgs("form-1").
		WillReturnRows(rows)

	form, err := repo.FindByID(context.Background(), "form-1")
	require.NoError(t, err)
	require.Equal(t, "owner-1", form.OwnerID)
	require.Len(t, form.Fields, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFormRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM forms WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormRepositoryListByOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFormRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(formColumns).
		AddRow("form-2", "owner-1", "Evening Class", models.FormStatusDraft, []byte(`[]`), now, now).
		AddRow("form-1", "owner-1", "Go Workshop", models.FormStatusActive, []byte(`[]`), now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM forms WHERE owner_id = $1 ORDER BY created_at DESC")).
		WithArgs("owner-1").
		WillReturnRows(rows)

	forms, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, forms, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
