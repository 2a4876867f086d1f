package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

type TaxonomyModule struct {
	Handler *handlers.TaxonomyHandler
	c       *container.Container
}

func NewTaxonomyModule(c *container.Container) *TaxonomyModule {
	return &TaxonomyModule{Handler: handlers.NewTaxonomyHandler(c.Categories, c.Languages, c.Logger), c: c}
}

func (m *TaxonomyModule) Register(rg *gin.RouterGroup) {
	rg.GET("/get/categories", m.Handler.ListCategories)
	rg.GET("/get/category/:id", m.Handler.GetCategory)
	rg.GET("/get/languages", m.Handler.ListLanguages)
	rg.GET("/get/language/:id", m.Handler.GetLanguage)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleAdmin))
	{
		admin.POST("/post/category", m.Handler.PostCategory)
		admin.PUT("/edit/category/:id", m.Handler.EditCategory)
		admin.PATCH("/list/category/:id", m.Handler.ListCategory)
		admin.PATCH("/unlist/category/:id", m.Handler.UnlistCategory)

		admin.POST("/post/language", m.Handler.PostLanguage)
		admin.PUT("/edit/language/:id", m.Handler.EditLanguage)
		admin.PATCH("/list/language/:id", m.Handler.ListLanguage)
		admin.PATCH("/unlist/language/:id", m.Handler.UnlistLanguage)
	}
}
