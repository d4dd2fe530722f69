package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/formtrack/formtrack-api/internal/models"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

// FormService exposes read access to owned forms. Authoring (draft/publish)
// happens in the form-builder surface, not here.
type FormService struct {
	forms  formReader
	guard  *AccessGuard
	logger *zap.Logger
}

// NewFormService constructs the form service.
func NewFormService(forms formReader, guard *AccessGuard, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{forms: forms, guard: guard, logger: logger}
}

// List returns all forms owned by the account.
func (s *FormService) List(ctx context.Context, accountID string) ([]models.Form, error) {
	forms, err := s.forms.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to list forms")
	}
	if forms == nil {
		forms = []models.Form{}
	}
	return forms, nil
}

// Get returns one owned form.
func (s *FormService) Get(ctx context.Context, accountID, formID string) (*models.Form, error) {
	return s.guard.Authorize(ctx, accountID, formID)
}
