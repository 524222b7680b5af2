package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"gorm.io/gorm"
)

type Users struct {
	*Repository[models.User]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{New[models.User](db, "user", "id")}
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.conn(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &u, nil
}

func (r *Users) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *Users) ListByRole(ctx context.Context, role models.UserRole, page Page) ([]models.User, error) {
	return r.ListBy(ctx, "role", role, page)
}

// ListActiveByRole pages over active users of role only.
func (r *Users) ListActiveByRole(ctx context.Context, role models.UserRole, page Page) ([]models.User, error) {
	return r.find(ctx, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("role = ? AND is_active = ?", role, true)
	})
}

func (r *Users) SetPassword(ctx context.Context, u *models.User, hash string) error {
	_, err := r.UpdateColumns(ctx, u, map[string]any{"password_hash": hash})
	return err
}

type Notifications struct {
	*Repository[models.Notification]
}

func NewNotifications(db *gorm.DB) *Notifications {
	return &Notifications{New[models.Notification](db, "notification", "user_id")}
}

func (r *Notifications) MarkRead(ctx context.Context, n *models.Notification, at time.Time) (*models.Notification, error) {
	if n.IsRead {
		return n, nil
	}
	return r.UpdateColumns(ctx, n, map[string]any{
		"is_read": true,
		"read_at": at,
		"status":  models.NotificationRead,
	})
}

// Notify queues an in-app notification for userID about a referenced record.
func (r *Notifications) Notify(ctx context.Context, userID uint, title, message, refType string, refID uint) (*models.Notification, error) {
	return r.Create(ctx, &models.Notification{
		Title:            title,
		Message:          message,
		NotificationType: models.NotifyInApp,
		Status:           models.NotificationPending,
		UserID:           userID,
		ReferenceType:    refType,
		ReferenceID:      &refID,
	})
}
