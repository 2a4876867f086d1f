package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

// UserModule wires profile, follow graph and admin user management.
type UserModule struct {
	Handler *handlers.UserHandler
	c       *container.Container
}

func NewUserModule(c *container.Container) *UserModule {
	return &UserModule{Handler: handlers.NewUserHandler(c.Users, c.Logger), c: c}
}

// perUser is the soft limit applied to every authenticated group.
func perUser(c *container.Container) gin.HandlerFunc {
	return middleware.RateLimit(c.Redis, middleware.LimitUser)
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.c.JWT, m.c.Sessions), perUser(m.c))
	{
		auth.GET("/profile", m.Handler.Profile)
		auth.PATCH("/update/profile/image", m.Handler.UpdateProfileImage)
		auth.PATCH("/update/credentials", m.Handler.UpdateCredentials)
		auth.PATCH("/follow/user/:id", m.Handler.Follow)
		auth.PATCH("/unfollow/user/:id", m.Handler.Unfollow)
		auth.PATCH("/remove/follower/:id", m.Handler.RemoveFollower)
		auth.GET("/search/users", m.Handler.Search)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleAdmin))
	{
		admin.GET("/get/users", m.Handler.List)
		admin.GET("/get/users/count", m.Handler.Count)
		admin.GET("/get/users/role/:role", m.Handler.ByRole)
		admin.GET("/get/users/count/:role", m.Handler.CountByRole)
		admin.PATCH("/block/user/:id", m.Handler.Block)
		admin.PATCH("/unblock/user/:id", m.Handler.Unblock)
		admin.GET("/get/audit/logs", m.Handler.AuditLogs)
	}
}
