package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/formtrack/formtrack-api/internal/models"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

type studentRecordReader interface {
	FindByFormAndID(ctx context.Context, formID, id string) (*models.StudentRecord, error)
}

// AttendanceService coordinates the mark write path and the statistics read
// path. Manual marks and QR check-ins share the same upsert core, so the
// per-(form, student, date) uniqueness semantics live in exactly one place.
type AttendanceService struct {
	repo          attendanceRepository
	students      studentRecordReader
	guard         *AccessGuard
	cache         *CacheService
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	lateThreshold int
	now           func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, students studentRecordReader, guard *AccessGuard, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, lateThresholdMinutes int) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lateThresholdMinutes <= 0 {
		lateThresholdMinutes = 15
	}
	return &AttendanceService{
		repo:          repo,
		students:      students,
		guard:         guard,
		cache:         cache,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		lateThreshold: lateThresholdMinutes,
		now:           time.Now,
	}
}

// MarkAttendanceRequest describes the manual mark payload.
type MarkAttendanceRequest struct {
	FormID    string  `json:"form_id" validate:"required"`
	StudentID string  `json:"student_id" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	Status    string  `json:"status" validate:"required"`
	Note      *string `json:"note"`
}

// CheckInRequest carries the opaque QR payload string.
type CheckInRequest struct {
	Payload string `json:"qr_payload" validate:"required"`
}

// CheckInResult summarises a QR-derived mark.
type CheckInResult struct {
	StudentID   string                   `json:"student_id"`
	StudentName string                   `json:"student_name"`
	Status      models.AttendanceStatus  `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Record      *models.AttendanceRecord `json:"record"`
}

// IssueCheckInCodeRequest asks for a check-in payload for one registration.
type IssueCheckInCodeRequest struct {
	FormID    string `json:"form_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// CheckInCode carries the encoded payload handed to the QR image encoder.
type CheckInCode struct {
	Payload  string    `json:"payload"`
	IssuedAt time.Time `json:"issued_at"`
}

// Mark upserts the attendance fact for a (form, student, date) triple. A
// second mark for the same triple updates the existing row; it never creates
// a duplicate.
func (s *AttendanceService) Mark(ctx context.Context, accountID string, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field date: %q is not a valid YYYY-MM-DD date", req.Date))
	}
	status := models.AttendanceStatus(strings.ToLower(req.Status))
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q is not one of present, absent, late", req.Status))
	}

	form, err := s.guard.Authorize(ctx, accountID, req.FormID)
	if err != nil {
		return nil, err
	}
	student, err := s.lookupStudent(ctx, form.ID, req.StudentID)
	if err != nil {
		return nil, err
	}

	record, err := s.mark(ctx, form, student, date, status, accountID, req.Note, "manual")
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CheckIn marks attendance from a decoded QR payload. The payload is decoded
// before any storage access; the status is resolved against the configured
// late threshold and then flows through the same upsert core as manual marks.
func (s *AttendanceService) CheckIn(ctx context.Context, accountID string, req CheckInRequest) (*CheckInResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	payload, err := DecodeCheckInPayload(req.Payload)
	if err != nil {
		return nil, err
	}

	form, err := s.guard.Authorize(ctx, accountID, payload.FormID)
	if err != nil {
		return nil, err
	}
	student, err := s.lookupStudent(ctx, form.ID, payload.StudentID)
	if err != nil {
		return nil, err
	}

	observedAt := s.now().UTC()
	status := ResolveStatus(payload.IssuedAt, observedAt, s.lateThreshold)
	date, err := time.Parse(models.DateLayout, observedAt.Format(models.DateLayout))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive calendar date")
	}

	record, err := s.mark(ctx, form, student, date, status, accountID, nil, "qr")
	if err != nil {
		return nil, err
	}
	return &CheckInResult{
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		Status:      record.Status,
		Timestamp:   record.MarkedAt,
		Record:      record,
	}, nil
}

// IssueCheckInCode encodes a check-in payload for a registered student. The
// QR image is rendered by the caller.
func (s *AttendanceService) IssueCheckInCode(ctx context.Context, accountID string, req IssueCheckInCodeRequest) (*CheckInCode, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	form, err := s.guard.Authorize(ctx, accountID, req.FormID)
	if err != nil {
		return nil, err
	}
	student, err := s.lookupStudent(ctx, form.ID, req.StudentID)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	payload, err := EncodeCheckInPayload(CheckInPayload{
		FormID:    form.ID,
		StudentID: student.ID,
		IssuedAt:  issuedAt,
	})
	if err != nil {
		return nil, err
	}
	return &CheckInCode{Payload: payload, IssuedAt: issuedAt}, nil
}

// RecordsQuery scopes a raw attendance record listing. All fields are
// optional; zero values leave the corresponding filter open.
type RecordsQuery struct {
	FormID    string
	StudentID string
	Status    string
	DateFrom  string
	DateTo    string
}

// Records lists the raw attendance records visible to the owner, optionally
// narrowed by student, status and date range. Unlike Overview it returns the
// facts without derived statistics.
func (s *AttendanceService) Records(ctx context.Context, accountID string, q RecordsQuery) ([]models.AttendanceRecord, error) {
	if q.FormID != "" {
		if _, err := s.guard.Authorize(ctx, accountID, q.FormID); err != nil {
			return nil, err
		}
	}

	filter := models.AttendanceFilter{
		OwnerID:   accountID,
		FormID:    q.FormID,
		StudentID: q.StudentID,
	}
	if q.Status != "" {
		status := models.AttendanceStatus(strings.ToLower(q.Status))
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q is not one of present, absent, late", q.Status))
		}
		filter.Status = &status
	}
	if q.DateFrom != "" {
		from, err := time.Parse(models.DateLayout, q.DateFrom)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field from: %q is not a valid YYYY-MM-DD date", q.DateFrom))
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(models.DateLayout, q.DateTo)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field to: %q is not a valid YYYY-MM-DD date", q.DateTo))
		}
		filter.DateTo = &to
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("attendance records read failed",
			zap.String("account_id", accountID),
			zap.String("form_id", q.FormID),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load attendance records")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

// Overview returns the records and derived statistics visible to the owner.
// An empty formID aggregates across all forms the account owns. Statistics
// are computed fresh from a point-in-time read; a concurrent mark may land
// after the read, which is an accepted staleness window.
func (s *AttendanceService) Overview(ctx context.Context, accountID, formID string) (*models.AttendanceOverview, error) {
	if formID != "" {
		if _, err := s.guard.Authorize(ctx, accountID, formID); err != nil {
			return nil, err
		}
	}

	cacheKey := overviewCacheKey(accountID, formID)
	if s.cache.Enabled() {
		var cached models.AttendanceOverview
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	records, err := s.repo.List(ctx, models.AttendanceFilter{OwnerID: accountID, FormID: formID})
	if err != nil {
		s.logger.Error("attendance overview read failed",
			zap.String("account_id", accountID),
			zap.String("form_id", formID),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load attendance records")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	sessions, overall := Aggregate(records)
	overview := &models.AttendanceOverview{
		AttendanceRecords: records,
		SessionStats:      sessions,
		Statistics:        overall,
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, overview, 0)
	}
	return overview, nil
}

func (s *AttendanceService) lookupStudent(ctx context.Context, formID, studentID string) (*models.StudentRecord, error) {
	student, err := s.students.FindByFormAndID(ctx, formID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %s is not registered under form %s", studentID, formID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student record")
	}
	return student, nil
}

func (s *AttendanceService) mark(ctx context.Context, form *models.Form, student *models.StudentRecord, date time.Time, status models.AttendanceStatus, markedBy string, note *string, source string) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{
		FormID:       form.ID,
		StudentID:    student.ID,
		Date:         date,
		Status:       status,
		SessionLabel: models.SessionLabel(date),
		MarkedAt:     s.now().UTC(),
		MarkedBy:     markedBy,
		Note:         note,
	}
	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		s.logger.Error("attendance mark failed",
			zap.String("form_id", form.ID),
			zap.String("student_id", student.ID),
			zap.String("date", date.Format(models.DateLayout)),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to persist attendance record")
	}
	if s.metrics != nil {
		s.metrics.RecordMark(string(status), source)
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, overviewCachePattern(form.OwnerID))
	}
	s.logger.Info("attendance marked",
		zap.String("form_id", form.ID),
		zap.String("student_id", student.ID),
		zap.String("date", date.Format(models.DateLayout)),
		zap.String("status", string(status)),
		zap.String("source", source))
	return stored, nil
}

func overviewCacheKey(accountID, formID string) string {
	if formID == "" {
		formID = "all"
	}
	return fmt.Sprintf("dashboard:overview:%s:%s", accountID, formID)
}

func overviewCachePattern(accountID string) string {
	return fmt.Sprintf("dashboard:overview:%s:*", accountID)
}

// validationMessage flattens validator errors into a detail string echoing
// the failing fields and received values so caller retries stay
// deterministic.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid payload"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("field %s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}
