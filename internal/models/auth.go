package models

import "time"

type TokenPurpose string

const (
	TokenPasswordReset TokenPurpose = "password_reset"
	TokenVerifyEmail   TokenPurpose = "verify_email"
)

// Token is a single-use secret mailed to the user.
type Token struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Token     string       `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Purpose   TokenPurpose `gorm:"type:varchar(32);not null" json:"purpose"`
	UserID    uint         `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
}

func (t Token) Expired(now time.Time) bool {
	return !t.IsActive || now.After(t.ExpiresAt)
}

type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID       uint      `gorm:"not null;index" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserAgent    string    `gorm:"size:255" json:"user_agent,omitempty"`
	IPAddress    string    `gorm:"size:64" json:"ip_address,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.IsActive || now.After(s.ExpiresAt)
}
