package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"maintenance-hub/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func serve(db *gorm.DB, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(Transaction(db, quietLogger()))
	r.GET("/x", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestTransactionCommitsThenResponds(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	w := serve(db, func(c *gin.Context) {
		assert.NotNil(t, Tx(c))
		Respond(c, http.StatusCreated, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionNilBodySendsStatusOnly(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	w := serve(db, func(c *gin.Context) { Respond(c, http.StatusNoContent, nil) })

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnFailure(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{apperr.NotFound("the asset does not exist"), http.StatusNotFound, "the asset does not exist"},
		{apperr.Forbidden("not enough permissions"), http.StatusForbidden, "not enough permissions"},
		{apperr.InvalidRelation("not a provider"), http.StatusBadRequest, "not a provider"},
		{apperr.Validation("title is required"), http.StatusUnprocessableEntity, "title is required"},
		{apperr.Internal(errors.New("disk full"), "writing"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.detail, func(t *testing.T) {
			db, mock := mockDB(t)
			mock.ExpectBegin()
			mock.ExpectRollback()

			w := serve(db, func(c *gin.Context) {
				// a queued reply is dropped once the request fails
				Respond(c, http.StatusOK, gin.H{"ok": true})
				Fail(c, tc.err)
			})

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.detail, detail(t, w))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionWritesAreRolledBack(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	w := serve(db, func(c *gin.Context) {
		if err := Tx(c).Exec(`UPDATE "assets" SET name = 'x' WHERE id = 1`).Error; err != nil {
			Fail(c, apperr.Internal(err, "update"))
			return
		}
		Fail(c, apperr.Forbidden("not enough permissions"))
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionQueryFailureIs500(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assets"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	w := serve(db, func(c *gin.Context) {
		if err := Tx(c).Exec(`UPDATE "assets" SET name = 'x' WHERE id = 1`).Error; err != nil {
			Fail(c, apperr.Internal(err, "update"))
			return
		}
		Respond(c, http.StatusOK, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", detail(t, w))
	assert.NotContains(t, w.Body.String(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionCommitFailure(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	w := serve(db, func(c *gin.Context) { Respond(c, http.StatusOK, gin.H{"ok": true}) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionBeginFailure(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	w := serve(db, func(c *gin.Context) { called = true })

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnauthorizedSetsChallenge(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	w := serve(db, func(c *gin.Context) { Fail(c, apperr.Unauthorized("not authenticated")) })

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
