package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/auth"
	"maintenance-hub/internal/middleware"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email              string          `json:"email" form:"email" binding:"required,email,max=255"`
	Password           string          `json:"password" form:"password" binding:"required,min=8,max=128"`
	FullName           string          `json:"full_name" form:"full_name" binding:"required,max=255"`
	CompanyName        string          `json:"company_name" form:"company_name" binding:"max=255"`
	TaxID              *string         `json:"tax_id" form:"tax_id" binding:"omitempty,max=32"`
	Phone              string          `json:"phone" form:"phone" binding:"max=50"`
	Role               models.UserRole `json:"role" form:"role"`
	ProviderType       string          `json:"provider_type" form:"provider_type" binding:"max=100"`
	ServiceAreas       string          `json:"service_areas" form:"service_areas" binding:"max=255"`
	CertificationLevel string          `json:"certification_level" form:"certification_level" binding:"max=100"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	// self-registration is limited to clients and providers
	switch req.Role {
	case "":
		req.Role = models.RoleClient
	case models.RoleClient, models.RoleProvider:
	default:
		fail(c, apperr.Validation("invalid role %q", req.Role))
		return
	}

	users := repository.NewUsers(tx(c))
	taken, err := users.EmailTaken(ctx(c), req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	if taken {
		fail(c, apperr.InvalidRelation("a user with this email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, apperr.Internal(err, "hashing password"))
		return
	}

	user, err := users.Create(ctx(c), &models.User{
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       hash,
		FullName:           strings.TrimSpace(req.FullName),
		CompanyName:        req.CompanyName,
		TaxID:              req.TaxID,
		Phone:              req.Phone,
		Role:               req.Role,
		IsActive:           true,
		ProviderType:       req.ProviderType,
		ServiceAreas:       req.ServiceAreas,
		CertificationLevel: req.CertificationLevel,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.auditAs(c, user.ID, "user", user.ID, "register", "registered as "+string(user.Role)); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

type loginRequest struct {
	// form posts use the OAuth2 password-flow field name
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := repository.NewUsers(tx(c)).GetByEmail(ctx(c), req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			fail(c, apperr.Unauthorized("incorrect email or password"))
			return
		}
		fail(c, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail(c, apperr.Unauthorized("incorrect email or password"))
		return
	}
	if !user.IsActive {
		fail(c, apperr.Forbidden("inactive user"))
		return
	}

	sess, err := repository.NewSessions(tx(c)).Open(ctx(c), user.ID, c.Request.UserAgent(), c.ClientIP(), h.now(), h.SessionTTL)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.Tokens.Issue(user.ID, string(user.Role), sess.SessionToken)
	if err != nil {
		fail(c, apperr.Internal(err, "issuing token"))
		return
	}

	cookie := sessions.Default(c)
	cookie.Set(middleware.SessionTokenKey, sess.SessionToken)
	if err := cookie.Save(); err != nil {
		fail(c, apperr.Internal(err, "saving cookie session"))
		return
	}

	if err := h.auditAs(c, user.ID, "session", sess.ID, "login", c.ClientIP()); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.Tokens.TTL().Seconds()),
		User:        user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := repository.NewSessions(tx(c)).Revoke(ctx(c), sess); err != nil {
		fail(c, err)
		return
	}

	cookie := sessions.Default(c)
	cookie.Clear()
	_ = cookie.Save()

	if err := h.audit(c, "session", sess.ID, "logout", ""); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusNoContent, nil)
}

func (h *Handler) Me(c *gin.Context) {
	respond(c, http.StatusOK, me(c))
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset always answers 202 so the endpoint does not reveal
// which emails are registered.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := repository.NewUsers(tx(c)).GetByEmail(ctx(c), req.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		fail(c, err)
		return
	}
	if user != nil && user.IsActive {
		tok, err := repository.NewTokens(tx(c)).Issue(ctx(c), user.ID, models.TokenPasswordReset, h.now(), h.ResetTokenTTL)
		if err != nil {
			fail(c, err)
			return
		}
		body := fmt.Sprintf("Use this code to reset your password: %s", tok.Token)
		if err := h.Mailer.Send(ctx(c), user.Email, "Password reset", body); err != nil {
			h.Log.WithError(err).WithField("user_id", user.ID).Warn("password reset mail failed")
		}
	}
	respond(c, http.StatusAccepted, gin.H{"detail": "if the email is registered, a reset code was sent"})
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	tok, err := repository.NewTokens(tx(c)).Consume(ctx(c), req.Token, models.TokenPasswordReset, h.now())
	if err != nil {
		fail(c, err)
		return
	}

	users := repository.NewUsers(tx(c))
	user, err := users.Get(ctx(c), tok.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, apperr.Internal(err, "hashing password"))
		return
	}
	if err := users.SetPassword(ctx(c), user, hash); err != nil {
		fail(c, err)
		return
	}
	if err := repository.NewSessions(tx(c)).RevokeAll(ctx(c), user.ID); err != nil {
		fail(c, err)
		return
	}

	if err := h.auditAs(c, user.ID, "user", user.ID, "password_reset", ""); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"detail": "password updated"})
}

func (h *Handler) RequestEmailVerification(c *gin.Context) {
	user := me(c)
	if user.IsVerified {
		respond(c, http.StatusOK, gin.H{"detail": "email already verified"})
		return
	}

	tok, err := repository.NewTokens(tx(c)).Issue(ctx(c), user.ID, models.TokenVerifyEmail, h.now(), h.ResetTokenTTL)
	if err != nil {
		fail(c, err)
		return
	}
	body := fmt.Sprintf("Use this code to verify your email: %s", tok.Token)
	if err := h.Mailer.Send(ctx(c), user.Email, "Verify your email", body); err != nil {
		h.Log.WithError(err).WithField("user_id", user.ID).Warn("verification mail failed")
	}
	respond(c, http.StatusAccepted, gin.H{"detail": "verification code sent"})
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) ConfirmEmailVerification(c *gin.Context) {
	var req verifyRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	tok, err := repository.NewTokens(tx(c)).Consume(ctx(c), req.Token, models.TokenVerifyEmail, h.now())
	if err != nil {
		fail(c, err)
		return
	}

	users := repository.NewUsers(tx(c))
	user, err := users.Get(ctx(c), tok.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	user, err = users.UpdateColumns(ctx(c), user, map[string]any{"is_verified": true})
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.auditAs(c, user.ID, "user", user.ID, "verify_email", ""); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
