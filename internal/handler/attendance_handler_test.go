package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/formtrack/formtrack-api/internal/middleware"
	"github.com/formtrack/formtrack-api/internal/models"
	"github.com/formtrack/formtrack-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeFormReader struct {
	forms map[string]models.Form
}

func (f *fakeFormReader) FindByID(ctx context.Context, id string) (*models.Form, error) {
	if form, ok := f.forms[id]; ok {
		return &form, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFormReader) ListByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	var forms []models.Form
	for _, form := range f.forms {
		if form.OwnerID == ownerID {
			forms = append(forms, form)
		}
	}
	return forms, nil
}

type fakeStudentReader struct {
	students map[string]models.StudentRecord
}

func (f *fakeStudentReader) FindByFormAndID(ctx context.Context, formID, id string) (*models.StudentRecord, error) {
	if student, ok := f.students[formID+"|"+id]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

type fakeAttendanceRepo struct {
	records map[string]models.AttendanceRecord
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if f.records == nil {
		f.records = make(map[string]models.AttendanceRecord)
	}
	key := record.FormID + "|" + record.StudentID + "|" + record.Date.Format(models.DateLayout)
	stored := *record
	if existing, ok := f.records[key]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = "att-1"
	}
	f.records[key] = stored
	return &stored, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	var rows []models.AttendanceRecord
	for _, record := range f.records {
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func newTestAttendanceHandler() (*AttendanceHandler, *fakeAttendanceRepo) {
	forms := &fakeFormReader{forms: map[string]models.Form{
		"f1": {ID: "f1", OwnerID: "owner-1", Topic: "Go Workshop", Status: models.FormStatusActive},
	}}
	students := &fakeStudentReader{students: map[string]models.StudentRecord{
		"f1|s1": {ID: "s1", FormID: "f1", Attributes: models.StudentAttributes{"name": "Ada Lovelace"}},
	}}
	repo := &fakeAttendanceRepo{}
	guard := service.NewAccessGuard(forms, zap.NewNop())
	attendance := service.NewAttendanceService(repo, students, guard, nil, nil, nil, zap.NewNop(), 15)
	exports := service.NewExportService(attendance, "Attendance Report", zap.NewNop())
	return NewAttendanceHandler(attendance, exports), repo
}

func postContext(t *testing.T, target, body, accountID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: accountID})
	return c, rec
}

func TestAttendanceHandlerMark(t *testing.T) {
	handler, repo := newTestAttendanceHandler()
	c, rec := postContext(t, "/attendance/mark",
		`{"form_id":"f1","student_id":"s1","date":"2024-01-10","status":"present"}`, "owner-1")

	handler.Mark(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["success"])
	assert.Equal(t, "att-1", envelope.Data["attendance_id"])
	assert.Len(t, repo.records, 1)
}

func TestAttendanceHandlerMarkInvalidStatus(t *testing.T) {
	handler, repo := newTestAttendanceHandler()
	c, rec := postContext(t, "/attendance/mark",
		`{"form_id":"f1","student_id":"s1","date":"2024-01-10","status":"vacation"}`, "owner-1")

	handler.Mark(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_STATUS", envelope.Error.Code)
	assert.Empty(t, repo.records)
}

func TestAttendanceHandlerMarkUnknownForm(t *testing.T) {
	handler, _ := newTestAttendanceHandler()
	c, rec := postContext(t, "/attendance/mark",
		`{"form_id":"nope","student_id":"s1","date":"2024-01-10","status":"present"}`, "owner-1")

	handler.Mark(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandlerCheckIn(t *testing.T) {
	handler, _ := newTestAttendanceHandler()

	payload, err := service.EncodeCheckInPayload(service.CheckInPayload{
		FormID:    "f1",
		StudentID: "s1",
		IssuedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	body, err := json.Marshal(gin.H{"qr_payload": payload})
	require.NoError(t, err)
	c, rec := postContext(t, "/attendance/checkin", string(body), "owner-1")

	handler.CheckIn(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["success"])
	data, ok := envelope.Data["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", data["student_name"])
	assert.Equal(t, "present", data["status"])
}

func TestAttendanceHandlerCheckInMalformedPayload(t *testing.T) {
	handler, repo := newTestAttendanceHandler()
	c, rec := postContext(t, "/attendance/checkin", `{"qr_payload":"garbage"}`, "owner-1")

	handler.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "MALFORMED_PAYLOAD", envelope.Error.Code)
	assert.Empty(t, repo.records)
}

func TestAttendanceHandlerIssueCheckInCode(t *testing.T) {
	handler, _ := newTestAttendanceHandler()
	c, rec := postContext(t, "/attendance/checkin-code", `{"form_id":"f1","student_id":"s1"}`, "owner-1")

	handler.IssueCheckInCode(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data["payload"])
}

func TestAttendanceHandlerOverview(t *testing.T) {
	handler, _ := newTestAttendanceHandler()

	markCtx, markRec := postContext(t, "/attendance/mark",
		`{"form_id":"f1","student_id":"s1","date":"2024-01-10","status":"present"}`, "owner-1")
	handler.Mark(markCtx)
	require.Equal(t, http.StatusOK, markRec.Code)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/overview?formId=f1", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "owner-1"})

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	records, ok := envelope.Data["attendance_records"].([]interface{})
	require.True(t, ok)
	assert.Len(t, records, 1)
	stats, ok := envelope.Data["statistics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["total_present"])
}

func TestAttendanceHandlerRecords(t *testing.T) {
	handler, _ := newTestAttendanceHandler()

	markCtx, markRec := postContext(t, "/attendance/mark",
		`{"form_id":"f1","student_id":"s1","date":"2024-01-10","status":"present"}`, "owner-1")
	handler.Mark(markCtx)
	require.Equal(t, http.StatusOK, markRec.Code)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/records?formId=f1&status=present", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "owner-1"})

	handler.Records(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	records, ok := envelope.Data["attendance_records"].([]interface{})
	require.True(t, ok)
	require.Len(t, records, 1)
	record, ok := records[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "present", record["status"])
}

func TestAttendanceHandlerRecordsInvalidStatus(t *testing.T) {
	handler, _ := newTestAttendanceHandler()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/records?formId=f1&status=vacation", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "owner-1"})

	handler.Records(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_STATUS", envelope.Error.Code)
}

func TestAttendanceHandlerExportCSV(t *testing.T) {
	handler, _ := newTestAttendanceHandler()

	markCtx, markRec := postContext(t, "/attendance/mark",
		`{"form_id":"f1","student_id":"s1","date":"2024-01-10","status":"present"}`, "owner-1")
	handler.Mark(markCtx)
	require.Equal(t, http.StatusOK, markRec.Code)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/export?formId=f1&format=csv", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "owner-1"})

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-report.csv")
	assert.Contains(t, rec.Body.String(), "2024-01-10")
}
