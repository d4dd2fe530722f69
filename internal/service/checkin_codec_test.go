package service

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

func TestCheckInPayloadRoundTrip(t *testing.T) {
	issued := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	encoded, err := EncodeCheckInPayload(CheckInPayload{FormID: "f1", StudentID: "s1", IssuedAt: issued})
	require.NoError(t, err)

	decoded, err := DecodeCheckInPayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, CheckInKind, decoded.Kind)
	assert.Equal(t, "f1", decoded.FormID)
	assert.Equal(t, "s1", decoded.StudentID)
	assert.True(t, decoded.IssuedAt.Equal(issued))
}

func TestDecodeCheckInPayloadMalformed(t *testing.T) {
	cases := map[string]string{
		"not base64":     "%%%not-base64%%%",
		"not json":       base64.RawURLEncoding.EncodeToString([]byte("not json at all")),
		"missing fields": base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"attendance_checkin"}`)),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCheckInPayload(payload)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrMalformedPayload.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestDecodeCheckInPayloadWrongKind(t *testing.T) {
	raw := `{"kind":"event_ticket","form_id":"f1","student_id":"s1","issued_at":"2024-01-10T09:00:00Z"}`
	_, err := DecodeCheckInPayload(base64.RawURLEncoding.EncodeToString([]byte(raw)))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWrongKind.Code, appErrors.FromError(err).Code)
}
