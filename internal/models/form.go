package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FormStatus represents the lifecycle state of a form.
type FormStatus string

const (
	FormStatusDraft    FormStatus = "draft"
	FormStatusActive   FormStatus = "active"
	FormStatusArchived FormStatus = "archived"
)

// Valid returns true when the status is a supported value.
func (s FormStatus) Valid() bool {
	switch s {
	case FormStatusDraft, FormStatusActive, FormStatusArchived:
		return true
	default:
		return false
	}
}

// FormField describes one expected submission field of a form.
type FormField struct {
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FormFields is the ordered field list stored as JSONB.
type FormFields []FormField

// Value implements driver.Valuer for JSONB storage.
func (f FormFields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB storage.
func (f *FormFields) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported form fields type %T", src)
	}
}

// Form is an owned schema under which students register and attendance is
// tracked. The attendance subsystem only ever reads it.
type Form struct {
	ID        string     `db:"id" json:"id"`
	OwnerID   string     `db:"owner_id" json:"owner_id"`
	Topic     string     `db:"topic" json:"topic"`
	Status    FormStatus `db:"status" json:"status"`
	Fields    FormFields `db:"fields" json:"fields"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
