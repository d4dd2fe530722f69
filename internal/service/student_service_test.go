package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formtrack/formtrack-api/internal/models"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.StudentRecord
}

func (m *mockStudentRepo) FindByFormAndID(ctx context.Context, formID, id string) (*models.StudentRecord, error) {
	if student, ok := m.students[formID+"|"+id]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ListByForm(ctx context.Context, formID string) ([]models.StudentRecord, error) {
	var records []models.StudentRecord
	for _, student := range m.students {
		if student.FormID == formID {
			records = append(records, student)
		}
	}
	return records, nil
}

func (m *mockStudentRepo) BulkCreate(ctx context.Context, records []models.StudentRecord) error {
	if m.students == nil {
		m.students = make(map[string]models.StudentRecord)
	}
	for i, record := range records {
		record.ID = fmt.Sprintf("s-%d", len(m.students)+i+1)
		m.students[record.FormID+"|"+record.ID] = record
	}
	return nil
}

func newTestStudentService(repo *mockStudentRepo) *StudentService {
	forms := &mockFormReader{forms: map[string]models.Form{
		"f1": {ID: "f1", OwnerID: "owner-1", Topic: "Go Workshop", Status: models.FormStatusActive},
		"f2": {ID: "f2", OwnerID: "someone-else", Topic: "Other", Status: models.FormStatusActive},
	}}
	guard := NewAccessGuard(forms, zap.NewNop())
	return NewStudentService(repo, guard, validator.New(), zap.NewNop())
}

func TestStudentServiceImport(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newTestStudentService(repo)

	records, err := svc.Import(context.Background(), "owner-1", "f1", ImportStudentsRequest{
		Records: []models.StudentAttributes{
			{"name": "Ada Lovelace", "email": "ada@example.com"},
			{"full_name": "Grace Hopper"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Len(t, repo.students, 2)
	for _, record := range records {
		assert.Equal(t, "f1", record.FormID)
	}
}

func TestStudentServiceImportEmptyRejected(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newTestStudentService(repo)

	_, err := svc.Import(context.Background(), "owner-1", "f1", ImportStudentsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.students)
}

func TestStudentServiceImportUnauthorizedForm(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newTestStudentService(repo)

	_, err := svc.Import(context.Background(), "owner-1", "f2", ImportStudentsRequest{
		Records: []models.StudentAttributes{{"name": "Ada"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.students)
}

func TestStudentServiceListEmptyIsNotNil(t *testing.T) {
	svc := newTestStudentService(&mockStudentRepo{})

	records, err := svc.List(context.Background(), "owner-1", "f1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := newTestStudentService(&mockStudentRepo{})

	_, err := svc.Get(context.Background(), "owner-1", "f1", "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGet(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.StudentRecord{
		"f1|s1": {ID: "s1", FormID: "f1", Attributes: models.StudentAttributes{"name": "Ada Lovelace"}},
	}}
	svc := newTestStudentService(repo)

	record, err := svc.Get(context.Background(), "owner-1", "f1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", record.DisplayName())
}
