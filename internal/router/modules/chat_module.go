package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/internal/interface/ws"
)

// ChatModule wires the chat REST endpoints and the websocket upgrade.
type ChatModule struct {
	Handler *handlers.ChatHandler
	Socket  *ws.Handler
	c       *container.Container
}

func NewChatModule(c *container.Container) *ChatModule {
	return &ChatModule{
		Handler: handlers.NewChatHandler(c.Chats, c.Logger),
		Socket:  ws.NewHandler(c.Hub, c.ChatGuard(), c.Config.CORSOrigins(), c.Logger),
		c:       c,
	}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	authed := middleware.Auth(m.c.JWT, m.c.Sessions)
	// no per-user limit on the long-lived socket
	rg.GET("/ws", authed, m.Socket.Serve)

	chat := rg.Group("/")
	chat.Use(authed, perUser(m.c))
	{
		chat.POST("/chat/access", m.Handler.Access)
		chat.GET("/chat/fetch", m.Handler.Fetch)
		chat.POST("/message/send", m.Handler.Send)
		chat.GET("/message/all/:id", m.Handler.Messages)
	}
}
