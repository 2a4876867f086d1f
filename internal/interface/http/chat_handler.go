package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type ChatHandler struct {
	Svc    *application.ChatService
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Logger: logger}
}

type accessChatRequest struct {
	UserID string `json:"userId" binding:"required,objectid"`
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId" binding:"required,objectid"`
	Content string `json:"content" binding:"required,max=4000"`
}

// Access POST /api/chat/access
func (h *ChatHandler) Access(c *gin.Context) {
	var req accessChatRequest
	if !bindJSON(c, &req) {
		return
	}
	chat, err := h.Svc.Access(c.Request.Context(), middleware.UserID(c), req.UserID)
	if err != nil {
		fail(c, h.Logger, "chat access failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Chat fetched successfully", "chat", chat)
}

// Fetch GET /api/chat/fetch
func (h *ChatHandler) Fetch(c *gin.Context) {
	chats, err := h.Svc.Fetch(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "chat fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Chats fetched successfully", "chats", chats)
}

// Send POST /api/message/send
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.Svc.Send(c.Request.Context(), req.ChatID, middleware.UserID(c), req.Content)
	if err != nil {
		fail(c, h.Logger, "message send failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent successfully", "data", m)
}

// Messages GET /api/message/all/:id (chat id)
func (h *ChatHandler) Messages(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	msgs, err := h.Svc.Messages(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "message list failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Messages fetched successfully", "messages", msgs)
}
