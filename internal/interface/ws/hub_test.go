package ws

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

const room = "64b7f0c2a1b2c3d4e5f60718"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return h, cancel
}

func serve(t *testing.T, hub *Hub, guard RoomGuard) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(hub, guard, nil, quietLogger())
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middleware.CtxUserID, c.Query("uid"))
		c.Next()
	}, h.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, userID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?uid="+userID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func join(t *testing.T, hub *Hub, conn *websocket.Conn, want int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Frame{Type: TypeJoin, Room: room}))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == want }, time.Second, 5*time.Millisecond)
}

func TestJoinedClientReceivesRoomBroadcast(t *testing.T) {
	hub, _ := startHub(t)
	url := serve(t, hub, nil)
	conn := dial(t, url, "u1")
	join(t, hub, conn, 1)

	hub.Broadcast(room, "message", map[string]string{"content": "hello"})

	f := read(t, conn)
	assert.Equal(t, "message", f.Type)
	assert.Equal(t, room, f.Room)
	assert.Equal(t, map[string]any{"content": "hello"}, f.Data)
}

func TestBroadcastSkipsOtherRooms(t *testing.T) {
	hub, _ := startHub(t)
	url := serve(t, hub, nil)
	conn := dial(t, url, "u1")
	join(t, hub, conn, 1)

	hub.Broadcast("another-room", "message", "ignored")
	require.NoError(t, conn.WriteJSON(Frame{Type: TypePing}))

	assert.Equal(t, TypePong, read(t, conn).Type)
}

func TestLeaveRemovesMembership(t *testing.T) {
	hub, _ := startHub(t)
	url := serve(t, hub, nil)
	conn := dial(t, url, "u1")
	join(t, hub, conn, 1)

	require.NoError(t, conn.WriteJSON(Frame{Type: TypeLeave, Room: room}))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 5*time.Millisecond)
}

func TestGuardRejectsJoin(t *testing.T) {
	hub, _ := startHub(t)
	denied := errors.New("not a participant of this chat")
	url := serve(t, hub, func(_ context.Context, _, _ string) error { return denied })
	conn := dial(t, url, "u1")

	require.NoError(t, conn.WriteJSON(Frame{Type: TypeJoin, Room: room}))

	f := read(t, conn)
	assert.Equal(t, TypeError, f.Type)
	assert.Equal(t, denied.Error(), f.Data)
	assert.Equal(t, 0, hub.RoomSize(room))
}

func TestTypingRelayedToOtherMembers(t *testing.T) {
	hub, _ := startHub(t)
	url := serve(t, hub, nil)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")
	join(t, hub, alice, 1)
	join(t, hub, bob, 2)

	require.NoError(t, alice.WriteJSON(Frame{Type: TypeTyping, Room: room}))
	require.NoError(t, alice.WriteJSON(Frame{Type: TypePing}))

	f := read(t, bob)
	assert.Equal(t, TypeTyping, f.Type)
	assert.Equal(t, "alice", f.Data)
	// the sender gets its pong, not its own typing event
	assert.Equal(t, TypePong, read(t, alice).Type)
}

func TestTypingIgnoredOutsideJoinedRoom(t *testing.T) {
	hub, _ := startHub(t)
	url := serve(t, hub, nil)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")
	join(t, hub, bob, 1)

	require.NoError(t, alice.WriteJSON(Frame{Type: TypeStopTyping, Room: room}))
	hub.Broadcast(room, "message", "after")

	f := read(t, bob)
	assert.Equal(t, "message", f.Type)
}

func TestSlowClientDropped(t *testing.T) {
	hub, _ := startHub(t)
	c := &Client{id: clientIDCounter.Add(1), userID: "slow", hub: hub, send: make(chan Frame, 1)}
	require.True(t, send(hub, hub.register, c))
	require.True(t, send(hub, hub.join, membership{client: c, room: room}))

	hub.Broadcast(room, "message", 1)
	hub.Broadcast(room, "message", 2)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.RoomSize(room))
	f, ok := <-c.send
	assert.True(t, ok)
	assert.Equal(t, 1, f.Data)
	_, ok = <-c.send
	assert.False(t, ok)
}

func TestStopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	c := &Client{id: clientIDCounter.Add(1), userID: "u1", hub: hub, send: make(chan Frame, sendBuffer)}
	require.True(t, send(hub, hub.register, c))

	cancel()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	<-hub.done
	assert.False(t, send(hub, hub.register, c))
	hub.Broadcast(room, "message", "dropped")
}
