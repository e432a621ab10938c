package models

import "time"

// VerificationCode is a pending email-verification record. At most one
// exists per email; requesting a new code replaces it.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// TableName overrides the table name
func (VerificationCode) TableName() string {
	return "verification_codes"
}

// Expired reports whether the code is past its expiry at the given time.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
