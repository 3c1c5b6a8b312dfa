package models

// Scope is a named permission unit. Every scope referenced by a grant, code or
// token must exist here at validation time.
type Scope struct {
	Code        string `gorm:"primaryKey;size:36"`
	Description string `gorm:"size:300;not null"`
}

func (Scope) TableName() string {
	return "scopes"
}

// Grant records that an account approved a client for a scope. The composite
// unique index makes re-approval a no-op instead of a duplicate row.
type Grant struct {
	ID         uint   `gorm:"primaryKey"`
	AccountUID string `gorm:"size:36;uniqueIndex:uq_grant;not null"`
	ClientID   string `gorm:"size:36;uniqueIndex:uq_grant;not null"`
	ScopeCode  string `gorm:"size:36;uniqueIndex:uq_grant;not null"`
}

func (Grant) TableName() string {
	return "grants"
}
