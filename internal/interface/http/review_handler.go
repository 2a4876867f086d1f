package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type reviewRequest struct {
	Review string  `json:"review" binding:"required,max=2000"`
	Rating float64 `json:"rating" binding:"required,min=1,max=5"`
}

// List GET /api/get/reviews/:id (course id)
func (h *ReviewHandler) List(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	reviews, err := h.Svc.List(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "review list failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews fetched successfully", "reviews", reviews)
}

// Post POST /api/post/review/:id (course id)
func (h *ReviewHandler) Post(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Svc.Post(c.Request.Context(), id, middleware.UserID(c), req.Review, req.Rating)
	if err != nil {
		fail(c, h.Logger, "review post failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Review posted successfully", "review", rv)
}

// Edit PATCH /api/edit/review/:id (review id)
func (h *ReviewHandler) Edit(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Svc.Edit(c.Request.Context(), id, middleware.UserID(c), req.Review, req.Rating)
	if err != nil {
		fail(c, h.Logger, "review edit failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Review updated successfully", "review", rv)
}

// Delete DELETE /api/delete/review/:id (review id)
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	rv, err := h.Svc.Delete(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "review delete failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Review deleted successfully", "review", rv)
}
