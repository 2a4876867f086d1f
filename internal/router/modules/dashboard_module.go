package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

// DashboardModule exposes the revenue rollups: 5% platform share for admins,
// 95% share for the calling tutor.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
	c       *container.Container
}

func NewDashboardModule(c *container.Container) *DashboardModule {
	return &DashboardModule{Handler: handlers.NewDashboardHandler(c.Dashboard, c.Logger), c: c}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	admin := middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleAdmin)
	rg.GET("/get/course/data/dashboard", admin, m.Handler.Platform)
	rg.GET("/admin/get/dashboard/summary", admin, m.Handler.Summary)

	tutor := middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleTutor)
	rg.GET("/tutor/get/course/data/dashboard", tutor, m.Handler.Tutor)
}
