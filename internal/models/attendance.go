package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// DateLayout is the canonical date-only format used for attendance facts.
const DateLayout = "2006-01-02"

// SessionLabel derives the human-readable session label from a calendar
// date. It is locale-stable and a pure function of the date, never of the
// observation time.
func SessionLabel(date time.Time) string {
	return "Session " + date.Format(DateLayout)
}

// AttendanceRecord is the canonical fact capturing one student's status for
// one form on one calendar date. At most one row exists per
// (form, student, date); re-marking updates the row in place.
type AttendanceRecord struct {
	ID           string           `db:"id" json:"id"`
	FormID       string           `db:"form_id" json:"form_id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	Date         time.Time        `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	SessionLabel string           `db:"session_label" json:"session_label"`
	MarkedAt     time.Time        `db:"marked_at" json:"marked_at"`
	MarkedBy     string           `db:"marked_by" json:"marked_by"`
	Note         *string          `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes attendance record queries.
type AttendanceFilter struct {
	OwnerID   string
	FormID    string
	StudentID string
	Status    *AttendanceStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

// SessionStatistic summarises one calendar date within a form's history.
type SessionStatistic struct {
	Date         string  `json:"date"`
	SessionLabel string  `json:"session_label"`
	Total        int     `json:"total"`
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	Late         int     `json:"late"`
	Rate         float64 `json:"rate"`
}

// AggregateStatistic totals attendance across all records visible to the
// querying owner.
type AggregateStatistic struct {
	DistinctStudents int     `json:"distinct_students"`
	TotalPresent     int     `json:"total_present"`
	TotalAbsent      int     `json:"total_absent"`
	TotalLate        int     `json:"total_late"`
	TotalRecords     int     `json:"total_records"`
	TotalSessions    int     `json:"total_sessions"`
	OverallRate      float64 `json:"overall_rate"`
}

// AttendanceOverview bundles the raw records with derived statistics.
type AttendanceOverview struct {
	AttendanceRecords []AttendanceRecord `json:"attendance_records"`
	SessionStats      []SessionStatistic `json:"session_stats"`
	Statistics        AggregateStatistic `json:"statistics"`
}
