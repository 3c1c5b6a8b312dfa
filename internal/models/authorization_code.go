package models

import (
	"time"
)

// AuthorizationCode is a short-lived, single-use credential binding an account,
// a client and the scopes granted at authorization time. Scopes is stored as a
// comma-separated string, the same wire format the authorize endpoint receives.
type AuthorizationCode struct {
	Code                string `gorm:"primaryKey;size:64"`
	AccountUID          string `gorm:"size:36;not null"`
	ClientID            string `gorm:"size:36;not null"`
	Scopes              string
	CodeChallenge       string    `gorm:"size:88"`
	CodeChallengeMethod string    `gorm:"size:8"`
	ExpiresAt           time.Time `gorm:"not null;index"`
	CreatedAt           time.Time
}

func (AuthorizationCode) TableName() string {
	return "authorization_codes"
}

// Expired reports whether the code is past its TTL.
func (c *AuthorizationCode) Expired() bool {
	return time.Now().After(c.ExpiresAt)
}
