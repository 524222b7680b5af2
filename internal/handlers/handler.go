package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"maintenance-hub/internal/apperr"
	"maintenance-hub/internal/auth"
	"maintenance-hub/internal/middleware"
	"maintenance-hub/internal/models"
	"maintenance-hub/internal/policy"
	"maintenance-hub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler carries what the route handlers share. It holds no database
// handle: every request works inside the transaction the middleware opened.
type Handler struct {
	Tokens      *auth.Manager
	Transitions policy.Transitions
	Mailer      Mailer
	Log         *logrus.Logger

	SessionTTL    time.Duration
	ResetTokenTTL time.Duration

	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func tx(c *gin.Context) *gorm.DB { return middleware.Tx(c) }

func ctx(c *gin.Context) context.Context { return c.Request.Context() }

func me(c *gin.Context) *models.User { return middleware.CurrentUser(c) }

func access(c *gin.Context) *policy.Policy {
	return policy.New(repository.NewParents(tx(c)))
}

func fail(c *gin.Context, err error) { middleware.Fail(c, err) }

func respond(c *gin.Context, status int, body any) { middleware.Respond(c, status, body) }

func idParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// page reads the skip/limit query parameters.
func page(c *gin.Context) (repository.Page, error) {
	p := repository.Page{Limit: repository.DefaultLimit}
	if raw := c.Query("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return p, apperr.Validation("skip must be a non-negative integer")
		}
		p.Offset = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > repository.MaxLimit {
			return p, apperr.Validation("limit must be between 1 and %d", repository.MaxLimit)
		}
		p.Limit = v
	}
	return p, nil
}

// bind decodes the body into obj; any decoding or validation problem is a
// ValidationError.
func bind(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Validation("field %s failed validation: %s", fe.Field(), fe.Tag())
		}
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// audit records a change made by the caller.
func (h *Handler) audit(c *gin.Context, entity string, entityID uint, action, details string) error {
	return h.auditAs(c, me(c).ID, entity, entityID, action, details)
}

func (h *Handler) auditAs(c *gin.Context, userID uint, entity string, entityID uint, action, details string) error {
	return repository.NewAudit(tx(c)).Record(ctx(c), userID, entity, entityID, action, details)
}

// load fetches the record named by the path parameter and checks the caller
// holds rel on it. Missing records are 404 before any permission check, so a
// 403 means the record exists.
func load[T models.Owned](c *gin.Context, param string, get func(context.Context, uint) (*T, error), rel policy.Relation, what string) (*T, bool) {
	id, err := idParam(c, param)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	rec, err := get(ctx(c), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if err := access(c).Authorize(ctx(c), me(c), *rec, rel, what); err != nil {
		fail(c, err)
		return nil, false
	}
	return rec, true
}
