package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
	"github.com/formtrack/formtrack-api/pkg/export"
)

// ExportFormat enumerates supported report formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered report.
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ExportService renders per-session attendance statistics as CSV or PDF.
type ExportService struct {
	attendance *AttendanceService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	title      string
	logger     *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(attendance *AttendanceService, title string, logger *zap.Logger) *ExportService {
	if title == "" {
		title = "Attendance Report"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		attendance: attendance,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		title:      title,
		logger:     logger,
	}
}

var exportHeaders = []string{"Date", "Session", "Total", "Present", "Absent", "Late", "Rate"}

// Render builds the owner's session statistics report in the requested
// format. Access is checked by the underlying overview query.
func (s *ExportService) Render(ctx context.Context, accountID, formID string, format ExportFormat) (*ExportResult, error) {
	overview, err := s.attendance.Overview(ctx, accountID, formID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: exportHeaders}
	for _, stat := range overview.SessionStats {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":    stat.Date,
			"Session": stat.SessionLabel,
			"Total":   strconv.Itoa(stat.Total),
			"Present": strconv.Itoa(stat.Present),
			"Absent":  strconv.Itoa(stat.Absent),
			"Late":    strconv.Itoa(stat.Late),
			"Rate":    fmt.Sprintf("%.1f%%", stat.Rate*100),
		})
	}

	switch format {
	case ExportFormatCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{ContentType: "text/csv", Filename: "attendance-report.csv", Body: body}, nil
	case ExportFormatPDF:
		body, err := s.pdf.Render(dataset, s.title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: "attendance-report.pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("format %q is not one of csv, pdf", format))
	}
}
