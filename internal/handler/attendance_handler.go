package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formtrack/formtrack-api/internal/service"
	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
	"github.com/formtrack/formtrack-api/pkg/response"
)

// AttendanceHandler exposes the mark and statistics endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	exports    *service.ExportService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, exports *service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, exports: exports}
}

// Mark godoc
// @Summary Mark attendance for a student on a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), accountIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"success":       true,
		"attendance_id": record.ID,
		"message":       "attendance marked",
		"record":        record,
	})
}

// CheckIn godoc
// @Summary Mark attendance from a QR check-in payload
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CheckInRequest true "Check-in payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req service.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.CheckIn(c.Request.Context(), accountIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "check-in recorded",
		"data":    result,
	})
}

// IssueCheckInCode godoc
// @Summary Issue a check-in payload for a registration
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.IssueCheckInCodeRequest true "Registration reference"
// @Success 201 {object} response.Envelope
// @Router /attendance/checkin-code [post]
func (h *AttendanceHandler) IssueCheckInCode(c *gin.Context) {
	var req service.IssueCheckInCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	code, err := h.attendance.IssueCheckInCode(c.Request.Context(), accountIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, code)
}

// Records godoc
// @Summary List raw attendance records with optional filters
// @Tags Attendance
// @Produce json
// @Param formId query string false "Scope to one owned form; omit for all owned forms"
// @Param studentId query string false "Scope to one student registration"
// @Param status query string false "present, absent or late"
// @Param from query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param to query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/records [get]
func (h *AttendanceHandler) Records(c *gin.Context) {
	records, err := h.attendance.Records(c.Request.Context(), accountIDFromContext(c), service.RecordsQuery{
		FormID:    c.Query("formId"),
		StudentID: c.Query("studentId"),
		Status:    c.Query("status"),
		DateFrom:  c.Query("from"),
		DateTo:    c.Query("to"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"attendance_records": records})
}

// Overview godoc
// @Summary Attendance records with session and aggregate statistics
// @Tags Attendance
// @Produce json
// @Param formId query string false "Scope to one owned form; omit for all owned forms"
// @Success 200 {object} response.Envelope
// @Router /attendance/overview [get]
func (h *AttendanceHandler) Overview(c *gin.Context) {
	overview, err := h.attendance.Overview(c.Request.Context(), accountIDFromContext(c), c.Query("formId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Export godoc
// @Summary Export per-session statistics as CSV or PDF
// @Tags Attendance
// @Produce octet-stream
// @Param formId query string false "Scope to one owned form"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Render(c.Request.Context(), accountIDFromContext(c), c.Query("formId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
