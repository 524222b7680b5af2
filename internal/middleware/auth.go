package middleware

import (
	"errors"
	"strings"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/auth"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	currentUserKey    = "CurrentUser"
	currentSessionKey = "CurrentSession"

	// cookie session key holding the server-side session token
	SessionTokenKey = "session_token"
)

// Authenticate resolves the caller from a bearer token, or from the cookie
// session set at login, to an active user. Anything else is a 401.
func Authenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, err := sessionToken(c, tokens)
		if err != nil {
			Fail(c, err)
			return
		}

		ctx := c.Request.Context()
		tx := Tx(c)
		now := time.Now()

		sessRepo := repository.NewSessions(tx)
		sess, err := sessRepo.GetByToken(ctx, sessionToken)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				Fail(c, apperr.Unauthorized("could not validate credentials"))
				return
			}
			Fail(c, err)
			return
		}
		if sess.Expired(now) {
			Fail(c, apperr.Unauthorized("session expired"))
			return
		}

		user, err := repository.NewUsers(tx).Get(ctx, sess.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				Fail(c, apperr.Unauthorized("could not validate credentials"))
				return
			}
			Fail(c, err)
			return
		}
		if !user.IsActive {
			Fail(c, apperr.Forbidden("inactive user"))
			return
		}

		if err := sessRepo.Touch(ctx, sess, now); err != nil {
			Fail(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentSessionKey, sess)
		c.Next()
	}
}

func sessionToken(c *gin.Context, tokens *auth.Manager) (string, error) {
	header := c.GetHeader("Authorization")
	if header != "" {
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return "", apperr.Unauthorized("invalid authorization header")
		}
		claims, err := tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return "", apperr.Unauthorized("token expired")
			}
			return "", apperr.Unauthorized("could not validate credentials")
		}
		return claims.SessionID, nil
	}

	if v, ok := sessions.Default(c).Get(SessionTokenKey).(string); ok && v != "" {
		return v, nil
	}
	return "", apperr.Unauthorized("not authenticated")
}

// RequireRole lets only the listed roles through.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			Fail(c, apperr.Unauthorized("not authenticated"))
			return
		}
		if _, ok := roleSet[user.Role]; !ok {
			Fail(c, apperr.Forbidden("the user doesn't have enough privileges"))
			return
		}
		c.Next()
	}
}

// CurrentUser is the authenticated caller, nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(currentSessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}
