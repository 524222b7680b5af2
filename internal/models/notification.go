package models

import "time"

type NotificationType string

const (
	NotifyEmail  NotificationType = "email"
	NotifySMS    NotificationType = "sms"
	NotifyPush   NotificationType = "push"
	NotifyInApp  NotificationType = "in_app"
	NotifySystem NotificationType = "system"
)

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSent      NotificationStatus = "sent"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationRead      NotificationStatus = "read"
	NotificationFailed    NotificationStatus = "failed"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title            string             `gorm:"size:255;not null" json:"title"`
	Message          string             `gorm:"type:text;not null" json:"message"`
	NotificationType NotificationType   `gorm:"type:varchar(20);not null;default:in_app" json:"notification_type"`
	Status           NotificationStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	UserID uint `gorm:"not null;index" json:"user_id"`

	// e.g. "service_order", "payment"
	ReferenceType string `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID   *uint  `json:"reference_id,omitempty"`

	IsRead bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

func (n Notification) Ownership() Ownership {
	return Ownership{OwnerID: &n.UserID}
}
