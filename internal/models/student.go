package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UnknownStudentName is returned when no display name attribute is present.
const UnknownStudentName = "Unknown"

// displayNameKeys are probed in priority order when extracting a student's
// display name from the free-form attribute map.
var displayNameKeys = []string{"name", "full_name", "student_name", "Name", "Full Name"}

// StudentAttributes is the free-form key/value payload of a registration,
// loosely matching the owning form's field labels. Stored as JSONB.
type StudentAttributes map[string]string

// Value implements driver.Valuer for JSONB storage.
func (a StudentAttributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB storage.
func (a *StudentAttributes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported student attributes type %T", src)
	}
}

// StudentRecord is one registered participant of a form.
type StudentRecord struct {
	ID         string            `db:"id" json:"id"`
	FormID     string            `db:"form_id" json:"form_id"`
	Attributes StudentAttributes `db:"attributes" json:"attributes"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// DisplayName extracts the student's display name by probing candidate
// attribute keys in priority order, falling back to UnknownStudentName.
func (s StudentRecord) DisplayName() string {
	for _, key := range displayNameKeys {
		if value, ok := s.Attributes[key]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return UnknownStudentName
}
