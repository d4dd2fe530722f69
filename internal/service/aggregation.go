package service

import (
	"sort"

	"github.com/formtrack/formtrack-api/internal/models"
)

// Aggregate folds a set of attendance records into per-session and overall
// statistics. It is a pure function over the in-memory collection; fetching
// the records is the caller's responsibility. An empty input yields an empty
// session slice and a zeroed aggregate, never a division fault.
func Aggregate(records []models.AttendanceRecord) ([]models.SessionStatistic, models.AggregateStatistic) {
	// Group by the date string, not the session label: the label is derived
	// from the date and could theoretically diverge.
	groups := make(map[string][]models.AttendanceRecord)
	for _, record := range records {
		key := record.Date.Format(models.DateLayout)
		groups[key] = append(groups[key], record)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	sessions := make([]models.SessionStatistic, 0, len(dates))
	overall := models.AggregateStatistic{}
	students := make(map[string]struct{})

	for _, date := range dates {
		group := groups[date]
		stat := models.SessionStatistic{
			Date:         date,
			SessionLabel: models.SessionLabel(group[0].Date),
			Total:        len(group),
		}
		for _, record := range group {
			switch record.Status {
			case models.AttendanceStatusPresent:
				stat.Present++
			case models.AttendanceStatusAbsent:
				stat.Absent++
			case models.AttendanceStatusLate:
				stat.Late++
			}
			students[record.StudentID] = struct{}{}
		}
		if stat.Total > 0 {
			stat.Rate = float64(stat.Present) / float64(stat.Total)
		}
		sessions = append(sessions, stat)

		overall.TotalPresent += stat.Present
		overall.TotalAbsent += stat.Absent
		overall.TotalLate += stat.Late
		overall.TotalRecords += stat.Total
	}

	overall.DistinctStudents = len(students)
	overall.TotalSessions = len(dates)
	if overall.TotalRecords > 0 {
		overall.OverallRate = float64(overall.TotalPresent) / float64(overall.TotalRecords)
	}

	return sessions, overall
}
