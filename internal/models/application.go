package models

import (
	"time"

	"gorm.io/gorm"
)

// Application is a registered OAuth2 client application. ClientID identifies a
// trust boundary and is immutable once issued. SecretHash holds a bcrypt hash of
// the client secret; the plain secret is only returned once, at creation time.
type Application struct {
	UID         string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:40;uniqueIndex;not null"`
	Description string `gorm:"size:500;not null"`
	ClientID    string `gorm:"size:36;uniqueIndex;not null"`
	SecretHash  string `gorm:"column:client_secret;size:256;not null"`
	IconURI     string `gorm:"size:200"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Application) TableName() string {
	return "applications"
}

// RedirectURI is a callback target registered for an application. The authorize
// endpoint only redirects to URIs present in this table.
type RedirectURI struct {
	UID            string `gorm:"primaryKey;size:36"`
	ApplicationUID string `gorm:"size:36;index;not null"`
	RedirectURI    string `gorm:"size:200;not null"`
	CreatedAt      time.Time
}

func (RedirectURI) TableName() string {
	return "authorized_redirect_uris"
}
