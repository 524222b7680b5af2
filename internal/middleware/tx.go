package middleware

import (
	"net/http"

	"maintenance-hub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	txKey       = "tx"
	responseKey = "response"
)

type response struct {
	status int
	body   any
}

// Transaction opens one transaction per request. Handlers queue their reply
// with Respond or report a failure with c.Error; the reply is written only
// after the transaction committed, any error rolls everything back.
func Transaction(db *gorm.DB, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context()).Begin()
		if tx.Error != nil {
			writeError(c, log, apperr.Internal(tx.Error, "begin transaction"))
			c.Abort()
			return
		}
		c.Set(txKey, tx)

		done := false
		defer func() {
			if !done {
				tx.Rollback()
			}
		}()

		c.Next()

		if err := firstError(c); err != nil {
			tx.Rollback()
			done = true
			writeError(c, log, err)
			return
		}

		if err := tx.Commit().Error; err != nil {
			done = true
			writeError(c, log, apperr.Internal(err, "commit"))
			return
		}
		done = true

		if v, ok := c.Get(responseKey); ok {
			r := v.(response)
			if r.body == nil {
				c.Status(r.status)
				return
			}
			c.JSON(r.status, r.body)
		}
	}
}

// Tx returns the request transaction.
func Tx(c *gin.Context) *gorm.DB {
	return c.MustGet(txKey).(*gorm.DB)
}

// Respond queues the reply written after commit. A nil body sends only the
// status.
func Respond(c *gin.Context, status int, body any) {
	c.Set(responseKey, response{status: status, body: body})
}

// Fail records err for the transaction middleware and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func firstError(c *gin.Context) error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0].Err
}

func writeError(c *gin.Context, log *logrus.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		entry := log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		})
		if u := CurrentUser(c); u != nil {
			entry = entry.WithField("user_id", u.ID)
		}
		entry.Error("request failed")
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, gin.H{"detail": apperr.Detail(err)})
}
