package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

// maxUploadBytes bounds multipart uploads (images and course videos).
const maxUploadBytes = 50 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
}

type roleParam struct {
	Role string `uri:"role" binding:"required,oneof=student tutor admin"`
}

// Profile GET /api/profile
func (h *UserHandler) Profile(c *gin.Context) {
	p, err := h.Svc.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "profile fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "User fetched successfully", "user", p)
}

// UpdateProfileImage PATCH /api/update/profile/image (multipart field "image")
func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Image file is required")
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Error(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Internal(c, h.Logger, "open upload failed", err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UpdateProfileImage(c.Request.Context(), middleware.UserID(c), fh.Filename, ct, f)
	if err != nil {
		fail(c, h.Logger, "profile image update failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Profile image updated successfully", "user", p)
}

// UpdateCredentials PATCH /api/update/credentials
func (h *UserHandler) UpdateCredentials(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.UpdateCredentials(c.Request.Context(), middleware.UserID(c), req.Email, req.Username)
	if err != nil {
		fail(c, h.Logger, "credentials update failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Credentials updated successfully", "user", p)
}

func (h *UserHandler) graph(c *gin.Context, op func(*gin.Context, string, string) (*entity.Profile, error), message string) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	p, err := op(c, middleware.UserID(c), id)
	if err != nil {
		fail(c, h.Logger, "follow graph update failed", err)
		return
	}
	response.Success(c, http.StatusOK, message, "user", p)
}

// Follow PATCH /api/follow/user/:id
func (h *UserHandler) Follow(c *gin.Context) {
	h.graph(c, func(c *gin.Context, actor, target string) (*entity.Profile, error) {
		return h.Svc.Follow(c.Request.Context(), actor, target)
	}, "User followed successfully")
}

// Unfollow PATCH /api/unfollow/user/:id
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.graph(c, func(c *gin.Context, actor, target string) (*entity.Profile, error) {
		return h.Svc.Unfollow(c.Request.Context(), actor, target)
	}, "User unfollowed successfully")
}

// RemoveFollower PATCH /api/remove/follower/:id
func (h *UserHandler) RemoveFollower(c *gin.Context) {
	h.graph(c, func(c *gin.Context, actor, follower string) (*entity.Profile, error) {
		return h.Svc.RemoveFollower(c.Request.Context(), actor, follower)
	}, "Follower removed successfully")
}

// Search GET /api/search/users?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, "user search failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Users fetched successfully", "users", hits)
}

// List GET /api/admin/get/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "user list failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Users fetched successfully", "users", users)
}

// Count GET /api/admin/get/users/count
func (h *UserHandler) Count(c *gin.Context) {
	n, err := h.Svc.Count(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, "user count failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Users counted successfully", "count", n)
}

// ByRole GET /api/admin/get/users/role/:role
func (h *UserHandler) ByRole(c *gin.Context) {
	var p roleParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.Invalid(c, err)
		return
	}
	users, err := h.Svc.ListByRole(c.Request.Context(), entity.Role(p.Role))
	if err != nil {
		fail(c, h.Logger, "users by role failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Users fetched successfully", "users", users)
}

// CountByRole GET /api/admin/get/users/count/:role
func (h *UserHandler) CountByRole(c *gin.Context) {
	var p roleParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.Invalid(c, err)
		return
	}
	n, err := h.Svc.CountByRole(c.Request.Context(), entity.Role(p.Role))
	if err != nil {
		fail(c, h.Logger, "users count by role failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Users counted successfully", "count", n)
}

// Block PATCH /api/admin/block/user/:id
func (h *UserHandler) Block(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Block(c.Request.Context(), middleware.UserID(c), id, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "block user failed", err)
		return
	}
	response.Success(c, http.StatusOK, "User blocked successfully", "user", u)
}

// Unblock PATCH /api/admin/unblock/user/:id
func (h *UserHandler) Unblock(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Unblock(c.Request.Context(), middleware.UserID(c), id, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "unblock user failed", err)
		return
	}
	response.Success(c, http.StatusOK, "User unblocked successfully", "user", u)
}

// AuditLogs GET /api/admin/get/audit/logs?limit=
func (h *UserHandler) AuditLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	logs, err := h.Svc.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		fail(c, h.Logger, "audit log fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Audit logs fetched successfully", "logs", logs)
}
