// Package response writes the JSON envelopes used by every handler:
// {message, <key>: value} on success, {message} on failure and {errors: [...]} for invalid input.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/pkg/validation"
)

// InternalMessage is the only detail a client ever sees for an unexpected failure.
const InternalMessage = "Internal server error"

// Success writes {message, key: data}. An empty key writes {message} only.
func Success[T any](c *gin.Context, status int, message, key string, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"message": message}
	if key != "" {
		body[key] = data
	}
	c.JSON(status, body)
}

// With writes {message} plus every field in extra.
func With(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes {message} and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// Invalid writes the 400 {errors} envelope for a binding or validation failure.
func Invalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": validation.ToErrors(err)})
}

// Internal logs err with request context and writes a generic 500.
func Internal(c *gin.Context, logger *logrus.Logger, msg string, err error) {
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
			"method":     c.Request.Method,
		}).Error(msg)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": InternalMessage})
}
