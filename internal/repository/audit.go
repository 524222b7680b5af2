package repository

import (
	"context"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"gorm.io/gorm"
)

type Audit struct {
	*Repository[models.AuditLog]
}

func NewAudit(db *gorm.DB) *Audit {
	return &Audit{New[models.AuditLog](db, "audit record", "user_id")}
}

// Record writes one audit entry in the caller's transaction.
func (r *Audit) Record(ctx context.Context, userID uint, entity string, entityID uint, action, details string) error {
	rec := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := r.conn(ctx).Create(&rec).Error; err != nil {
		return apperr.Internal(err, "writing audit record")
	}
	return nil
}

// Recent returns the newest entries first.
func (r *Audit) Recent(ctx context.Context, page Page) ([]models.AuditLog, error) {
	page = page.normalize()
	out := []models.AuditLog{}
	err := r.conn(ctx).
		Order("created_at desc, id desc").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "listing audit records")
	}
	return out, nil
}
