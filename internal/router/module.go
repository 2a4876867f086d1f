package router

import "github.com/gin-gonic/gin"

// Module is one feature area (auth, courses, chat...) that mounts its routes under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}
