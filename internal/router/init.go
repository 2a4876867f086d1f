package router

import (
	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/router/modules"
)

// InitModules registers every feature module with the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	r.Add(modules.NewAuthModule(c))
	r.Add(modules.NewUserModule(c))
	r.Add(modules.NewCourseModule(c))
	r.Add(modules.NewReviewModule(c))
	r.Add(modules.NewTaxonomyModule(c))
	r.Add(modules.NewChatModule(c))
	r.Add(modules.NewDashboardModule(c))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c))
	}
}
