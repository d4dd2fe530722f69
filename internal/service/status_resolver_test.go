package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/formtrack/formtrack-api/internal/models"
)

func TestResolveStatusWithinThreshold(t *testing.T) {
	issued := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, models.AttendanceStatusPresent, ResolveStatus(issued, issued, 15))
	assert.Equal(t, models.AttendanceStatusPresent, ResolveStatus(issued, issued.Add(10*time.Minute), 15))
	// Exactly at the threshold still counts as present.
	assert.Equal(t, models.AttendanceStatusPresent, ResolveStatus(issued, issued.Add(15*time.Minute), 15))
}

func TestResolveStatusLate(t *testing.T) {
	issued := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	observed := issued.Add(20 * time.Minute)

	assert.Equal(t, models.AttendanceStatusLate, ResolveStatus(issued, observed, 15))
	assert.Equal(t, models.AttendanceStatusPresent, ResolveStatus(issued, observed, 30))
}

func TestResolveStatusClockSkewClampsToZero(t *testing.T) {
	issued := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	observed := issued.Add(-5 * time.Minute)

	assert.Equal(t, models.AttendanceStatusPresent, ResolveStatus(issued, observed, 15))
}

func TestResolveStatusMonotonicInObservedAt(t *testing.T) {
	issued := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	sawLate := false
	for minutes := 0; minutes <= 120; minutes++ {
		status := ResolveStatus(issued, issued.Add(time.Duration(minutes)*time.Minute), 15)
		if sawLate {
			assert.Equal(t, models.AttendanceStatusLate, status, "late must never flip back to present at %d minutes", minutes)
		}
		if status == models.AttendanceStatusLate {
			sawLate = true
		}
	}
	assert.True(t, sawLate)
}
