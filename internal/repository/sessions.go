package repository

import (
	"context"
	"errors"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sessions struct {
	*Repository[models.Session]
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{New[models.Session](db, "session", "user_id")}
}

// Open starts a session for userID valid for ttl.
func (r *Sessions) Open(ctx context.Context, userID uint, userAgent, ip string, now time.Time, ttl time.Duration) (*models.Session, error) {
	return r.Create(ctx, &models.Session{
		UserID:       userID,
		SessionToken: uuid.NewString(),
		UserAgent:    truncate(userAgent, 255),
		IPAddress:    truncate(ip, 64),
		IsActive:     true,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
	})
}

func (r *Sessions) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := r.conn(ctx).Where("session_token = ?", token).First(&s).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &s, nil
}

func (r *Sessions) Touch(ctx context.Context, s *models.Session, now time.Time) error {
	err := r.conn(ctx).Model(s).UpdateColumn("last_activity", now).Error
	if err != nil {
		return apperr.Internal(err, "touching session %d", s.ID)
	}
	return nil
}

func (r *Sessions) Revoke(ctx context.Context, s *models.Session) error {
	err := r.conn(ctx).Model(s).UpdateColumn("is_active", false).Error
	if err != nil {
		return apperr.Internal(err, "revoking session %d", s.ID)
	}
	return nil
}

// RevokeAll closes every session of userID, e.g. after a password reset.
func (r *Sessions) RevokeAll(ctx context.Context, userID uint) error {
	err := r.conn(ctx).Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		UpdateColumn("is_active", false).Error
	if err != nil {
		return apperr.Internal(err, "revoking sessions of user %d", userID)
	}
	return nil
}

type Tokens struct {
	*Repository[models.Token]
}

func NewTokens(db *gorm.DB) *Tokens {
	return &Tokens{New[models.Token](db, "token", "user_id")}
}

func (r *Tokens) Issue(ctx context.Context, userID uint, purpose models.TokenPurpose, now time.Time, ttl time.Duration) (*models.Token, error) {
	return r.Create(ctx, &models.Token{
		Token:     uuid.NewString(),
		Purpose:   purpose,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		IsActive:  true,
	})
}

// Consume deactivates a live token of the given purpose and returns it.
// Unknown, used and expired tokens all report ErrValidation.
func (r *Tokens) Consume(ctx context.Context, value string, purpose models.TokenPurpose, now time.Time) (*models.Token, error) {
	var t models.Token
	err := r.conn(ctx).Where("token = ? AND purpose = ?", value, purpose).First(&t).Error
	if err != nil {
		if err = r.notFound(err); errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("invalid or expired token")
		}
		return nil, err
	}
	if t.Expired(now) {
		return nil, apperr.Validation("invalid or expired token")
	}
	// only one concurrent consumer flips the flag
	res := r.conn(ctx).Model(&t).Where("is_active = ?", true).UpdateColumn("is_active", false)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "consuming token")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validation("invalid or expired token")
	}
	t.IsActive = false
	return &t, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
