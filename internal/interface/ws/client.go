package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

var clientIDCounter atomic.Uint64

// RoomGuard decides whether userID may join room.
type RoomGuard func(ctx context.Context, room, userID string) error

// Client sits between one websocket connection and the hub.
type Client struct {
	id     uint64
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Frame
	guard  RoomGuard

	// owned by the hub run loop
	rooms map[string]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, guard RoomGuard) *Client {
	return &Client{
		id:     clientIDCounter.Add(1),
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan Frame, sendBuffer),
		guard:  guard,
	}
}

func (c *Client) ID() uint64 { return c.id }

// handle applies one client frame.
func (c *Client) handle(ctx context.Context, f Frame) {
	h := c.hub
	switch f.Type {
	case TypePing:
		h.reply(c, Frame{Type: TypePong})
	case TypeJoin:
		if f.Room == "" {
			return
		}
		if c.guard != nil {
			if err := c.guard(ctx, f.Room, c.userID); err != nil {
				h.reply(c, Frame{Type: TypeError, Room: f.Room, Data: err.Error()})
				return
			}
		}
		send(h, h.join, membership{client: c, room: f.Room})
	case TypeLeave:
		send(h, h.leave, membership{client: c, room: f.Room})
	case TypeTyping, TypeStopTyping:
		h.publish(roomFrame{room: f.Room, frame: Frame{Type: f.Type, Room: f.Room, Data: c.userID}, skip: c})
	default:
		h.reply(c, Frame{Type: TypeError, Data: "unknown frame type"})
	}
}

func (c *Client) readPump() {
	defer func() {
		send(c.hub, c.hub.unregister, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.hub.log().WithError(err).Error("failed to set websocket read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := context.Background()
	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log().WithFields(logrus.Fields{"user_id": c.userID, "error": err}).Warn("unexpected websocket close")
			}
			return
		}
		c.handle(ctx, f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
