package service

import (
	"time"

	"github.com/formtrack/formtrack-api/internal/models"
)

// ResolveStatus derives the attendance status from a check-in timestamp
// relative to payload issuance. Elapsed time is measured in whole minutes
// and clamped at zero when observedAt precedes issuedAt (clock skew is not
// an error). Absent is never produced here; it is only assigned by an
// explicit mark.
func ResolveStatus(issuedAt, observedAt time.Time, lateThresholdMinutes int) models.AttendanceStatus {
	elapsed := observedAt.Sub(issuedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if int(elapsed.Minutes()) > lateThresholdMinutes {
		return models.AttendanceStatusLate
	}
	return models.AttendanceStatusPresent
}
