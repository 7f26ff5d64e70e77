package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is an account record. OTP and OTPExpires are nil once the account is verified.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"is_verified"`
	OTP          *string    `json:"-"`
	OTPExpires   *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PendingUser is the data written when a signup starts or restarts.
type PendingUser struct {
	Name         string
	Email        string
	PasswordHash string
	OTP          string
	OTPExpires   time.Time
}

// Job is a recruiter job opening.
type Job struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Company        string      `json:"company"`
	RequiredSkills StringArray `json:"required_skills"`
	MinScore       int         `json:"min_score"`
	CreatedAt      time.Time   `json:"created_at"`
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("StringArray: unsupported source type")
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}
