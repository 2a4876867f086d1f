package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/pkg/response"
	"github.com/oksasatya/go-learning-platform/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func failWith(t *testing.T, err error) (*httptest.ResponseRecorder, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { fail(c, logger, "op failed", err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w, hook
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return fmt.Sprint(body["message"])
}

func TestFailMapsWrappedErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("unlist: %w", application.ErrNotOwner), http.StatusBadRequest, "Course not found for this tutor"},
		{application.ErrInvalidCredentials, http.StatusUnauthorized, MsgNoAccount},
		{fmt.Errorf("signup: %w", application.ErrUserExists), http.StatusConflict, "User already exists with this username or email"},
		{application.ErrMediaDisabled, http.StatusServiceUnavailable, "File uploads are not available"},
	}
	for _, tc := range cases {
		w, hook := failWith(t, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.msg, message(t, w))
		assert.Empty(t, hook.AllEntries(), "mapped errors are not logged")
	}
}

func TestFailUnknownIsInternal(t *testing.T) {
	w, hook := failWith(t, errors.New("mongo: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.InternalMessage, message(t, w))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "op failed", hook.LastEntry().Message)
}

func TestBindID(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		if id, ok := bindID(c); ok {
			c.String(http.StatusOK, id)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/64b7f0c2a1b2c3d4e5f60718", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "errors")
}
