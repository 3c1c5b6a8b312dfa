package models

import (
	"time"
)

// RefreshToken is a long-lived credential used to mint new access tokens.
// Tokens are rotated on use: each refresh_token exchange deletes the presented
// row and creates a replacement.
type RefreshToken struct {
	Token      string `gorm:"primaryKey;size:64"`
	AccountUID string `gorm:"size:36;not null"`
	ClientID   string `gorm:"size:36;not null"`
	Scopes     string
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Expired reports whether the token is past its TTL.
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
