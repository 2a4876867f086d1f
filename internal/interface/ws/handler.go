package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

// Handler upgrades authenticated requests and attaches the connection to the hub.
type Handler struct {
	Hub            *Hub
	Guard          RoomGuard
	AllowedOrigins []string
	Logger         *logrus.Logger
}

func NewHandler(hub *Hub, guard RoomGuard, origins []string, logger *logrus.Logger) *Handler {
	return &Handler{Hub: hub, Guard: guard, AllowedOrigins: origins, Logger: logger}
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
}

// checkOrigin accepts non-browser clients (no Origin) and the configured CORS origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.Logger.WithField("origin", origin).Warn("websocket connection rejected from unauthorized origin")
	return false
}

// Serve GET /api/ws?token=
func (h *Handler) Serve(c *gin.Context) {
	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.Logger.WithError(err).Debug("websocket upgrade failed")
		return
	}
	client := NewClient(h.Hub, conn, middleware.UserID(c), h.Guard)
	if !send(h.Hub, h.Hub.register, client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
