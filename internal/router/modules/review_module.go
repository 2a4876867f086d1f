package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

type ReviewModule struct {
	Handler *handlers.ReviewHandler
	c       *container.Container
}

func NewReviewModule(c *container.Container) *ReviewModule {
	return &ReviewModule{Handler: handlers.NewReviewHandler(c.Reviews, c.Logger), c: c}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	rg.GET("/get/reviews/:id", m.Handler.List)

	student := rg.Group("/")
	student.Use(middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleStudent), perUser(m.c))
	{
		student.POST("/post/review/:id", m.Handler.Post)
		student.PATCH("/edit/review/:id", m.Handler.Edit)
		student.DELETE("/delete/review/:id", m.Handler.Delete)
	}
}
