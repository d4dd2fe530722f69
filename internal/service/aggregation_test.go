package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formtrack/formtrack-api/internal/models"
)

func day(value string) time.Time {
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregateEmptyInput(t *testing.T) {
	sessions, overall := Aggregate(nil)

	assert.Empty(t, sessions)
	assert.Equal(t, models.AggregateStatistic{}, overall)
}

func TestAggregateTwoSessions(t *testing.T) {
	records := []models.AttendanceRecord{
		{StudentID: "s1", FormID: "f1", Date: day("2024-01-10"), Status: models.AttendanceStatusPresent},
		{StudentID: "s2", FormID: "f1", Date: day("2024-01-10"), Status: models.AttendanceStatusLate},
		{StudentID: "s1", FormID: "f1", Date: day("2024-01-11"), Status: models.AttendanceStatusAbsent},
	}

	sessions, overall := Aggregate(records)
	require.Len(t, sessions, 2)

	first := sessions[0]
	assert.Equal(t, "2024-01-10", first.Date)
	assert.Equal(t, "Session 2024-01-10", first.SessionLabel)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, first.Present)
	assert.Equal(t, 1, first.Late)
	assert.Equal(t, 0, first.Absent)
	assert.InDelta(t, 0.5, first.Rate, 1e-9)

	second := sessions[1]
	assert.Equal(t, "2024-01-11", second.Date)
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 1, second.Absent)
	assert.Zero(t, second.Rate)

	assert.Equal(t, 2, overall.DistinctStudents)
	assert.Equal(t, 1, overall.TotalPresent)
	assert.Equal(t, 1, overall.TotalLate)
	assert.Equal(t, 1, overall.TotalAbsent)
	assert.Equal(t, 3, overall.TotalRecords)
	assert.Equal(t, 2, overall.TotalSessions)
	assert.InDelta(t, 1.0/3.0, overall.OverallRate, 1e-9)
}

func TestAggregateDeterministic(t *testing.T) {
	records := []models.AttendanceRecord{
		{StudentID: "s1", Date: day("2024-03-02"), Status: models.AttendanceStatusLate},
		{StudentID: "s2", Date: day("2024-03-01"), Status: models.AttendanceStatusPresent},
		{StudentID: "s3", Date: day("2024-03-01"), Status: models.AttendanceStatusAbsent},
	}

	firstSessions, firstOverall := Aggregate(records)
	secondSessions, secondOverall := Aggregate(records)

	assert.Equal(t, firstSessions, secondSessions)
	assert.Equal(t, firstOverall, secondOverall)
	assert.Equal(t, "2024-03-01", firstSessions[0].Date, "sessions sorted ascending by date")
}
