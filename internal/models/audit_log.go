package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `json:"-"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "asset", "service_order", ...
	EntityID uint   `json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "assign", ...
	Details  string `gorm:"type:text" json:"details,omitempty"`
}
