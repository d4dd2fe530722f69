package service

import (
	"encoding/base64"
	"encoding/json"
	"time"

	appErrors "github.com/formtrack/formtrack-api/pkg/errors"
)

// CheckInKind is the literal tag identifying an attendance check-in payload.
// It guards against payload confusion with other QR use cases in the same
// application.
const CheckInKind = "attendance_checkin"

// CheckInPayload is the structured record exchanged via QR code. The QR
// image encoding itself is an external concern; this codec only produces and
// consumes the serialized string.
type CheckInPayload struct {
	Kind      string    `json:"kind"`
	FormID    string    `json:"form_id"`
	StudentID string    `json:"student_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

// EncodeCheckInPayload serialises the payload for the QR image encoder.
func EncodeCheckInPayload(payload CheckInPayload) (string, error) {
	payload.Kind = CheckInKind
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode check-in payload")
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCheckInPayload parses an opaque payload string back into the
// structured record. It is pure and performs no storage access.
func DecodeCheckInPayload(encoded string) (*CheckInPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedPayload.Code, appErrors.ErrMalformedPayload.Status, "payload is not valid base64")
	}
	var payload CheckInPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedPayload.Code, appErrors.ErrMalformedPayload.Status, "payload is not a valid check-in record")
	}
	if payload.FormID == "" || payload.StudentID == "" || payload.IssuedAt.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrMalformedPayload, "payload is missing required check-in fields")
	}
	if payload.Kind != CheckInKind {
		return nil, appErrors.Clone(appErrors.ErrWrongKind, "payload kind \""+payload.Kind+"\" is not an attendance check-in")
	}
	return &payload, nil
}
