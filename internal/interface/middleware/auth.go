package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// browsers cannot set headers on a websocket upgrade
	return c.Query("token")
}

// Auth validates the bearer access token against the live session in Redis.
// With roles given, the token's role must be one of them.
func Auth(jwt *helpers.JWTManager, sessions *application.SessionStore, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Unauthorized: no token provided")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Unauthorized: invalid token")
			return
		}
		if sessions != nil {
			ok, err := sessions.Valid(c.Request.Context(), claims.UserID, claims.SessionID)
			if err != nil || !ok {
				response.Error(c, http.StatusUnauthorized, "Unauthorized: session expired")
				return
			}
		}
		role := entity.Role(claims.Role)
		if len(roles) > 0 && !hasRole(roles, role) {
			response.Error(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, string(role))
		c.Next()
	}
}

func hasRole(allowed []entity.Role, r entity.Role) bool {
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// UserID returns the caller set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// Role returns the caller's role set by Auth.
func Role(c *gin.Context) entity.Role {
	return entity.Role(c.GetString(CtxRole))
}
