package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

// Platform GET /api/get/course/data/dashboard (admin)
func (h *DashboardHandler) Platform(c *gin.Context) {
	rows, err := h.Svc.PlatformRevenue(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "platform dashboard failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard data fetched successfully", "data", rows)
}

// Tutor GET /api/tutor/get/course/data/dashboard
func (h *DashboardHandler) Tutor(c *gin.Context) {
	rows, err := h.Svc.TutorRevenue(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "tutor dashboard failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard data fetched successfully", "data", rows)
}

// Summary GET /api/admin/get/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.Svc.Summary(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "dashboard summary failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard summary fetched successfully", "summary", s)
}
