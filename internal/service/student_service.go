package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formtrack/formtrack-api/internal/models"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

type studentRecordRepository interface {
	FindByFormAndID(ctx context.Context, formID, id string) (*models.StudentRecord, error)
	ListByForm(ctx context.Context, formID string) ([]models.StudentRecord, error)
	BulkCreate(ctx context.Context, records []models.StudentRecord) error
}

// StudentService manages registered participants of a form. The attendance
// subsystem reads these records; creation happens through import only.
type StudentService struct {
	repo      studentRecordRepository
	guard     *AccessGuard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRecordRepository, guard *AccessGuard, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, guard: guard, validator: validate, logger: logger}
}

// ImportStudentsRequest carries the registrations to import under a form.
type ImportStudentsRequest struct {
	Records []models.StudentAttributes `json:"records" validate:"required,min=1"`
}

// Import registers participants under an owned form.
func (s *StudentService) Import(ctx context.Context, accountID, formID string, req ImportStudentsRequest) ([]models.StudentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	form, err := s.guard.Authorize(ctx, accountID, formID)
	if err != nil {
		return nil, err
	}

	records := make([]models.StudentRecord, len(req.Records))
	for i, attrs := range req.Records {
		records[i] = models.StudentRecord{FormID: form.ID, Attributes: attrs}
	}
	if err := s.repo.BulkCreate(ctx, records); err != nil {
		s.logger.Error("student import failed", zap.String("form_id", form.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to import student records")
	}
	s.logger.Info("students imported", zap.String("form_id", form.ID), zap.Int("count", len(records)))
	return records, nil
}

// List returns the registrations under an owned form.
func (s *StudentService) List(ctx context.Context, accountID, formID string) ([]models.StudentRecord, error) {
	form, err := s.guard.Authorize(ctx, accountID, formID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to list student records")
	}
	if records == nil {
		records = []models.StudentRecord{}
	}
	return records, nil
}

// Get returns one registration under an owned form.
func (s *StudentService) Get(ctx context.Context, accountID, formID, studentID string) (*models.StudentRecord, error) {
	form, err := s.guard.Authorize(ctx, accountID, formID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindByFormAndID(ctx, form.ID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "student record not found under form")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student record")
	}
	return record, nil
}
