package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, AttendanceStatusPresent.Valid())
	assert.True(t, AttendanceStatusAbsent.Valid())
	assert.True(t, AttendanceStatusLate.Valid())
	assert.False(t, AttendanceStatus("vacation").Valid())
	assert.False(t, AttendanceStatus("").Valid())
}

func TestSessionLabel(t *testing.T) {
	date := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "Session 2024-01-10", SessionLabel(date))
}

func TestFormStatusValid(t *testing.T) {
	assert.True(t, FormStatusDraft.Valid())
	assert.True(t, FormStatusActive.Valid())
	assert.True(t, FormStatusArchived.Valid())
	assert.False(t, FormStatus("deleted").Valid())
}
