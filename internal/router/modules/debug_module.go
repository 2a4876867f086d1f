package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

type DebugModule struct {
	c *container.Container
}

func NewDebugModule(c *container.Container) *DebugModule { return &DebugModule{c: c} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters; callers outside the private ranges are limited per IP
	rg.GET("/debug/vars", middleware.RateLimit(m.c.Redis, middleware.LimitDebug), gin.WrapH(expvar.Handler()))
}
