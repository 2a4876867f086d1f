// Package ws fans chat events out to websocket clients grouped in rooms.
// A room is a chat id; clients join the rooms of the chats they take part in.
package ws

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Frame types exchanged over the socket.
const (
	TypeJoin       = "join"
	TypeLeave      = "leave"
	TypeTyping     = "typing"
	TypeStopTyping = "stop_typing"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
)

// Frame is both the client request and the server event.
type Frame struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
	Data any    `json:"data,omitempty"`
}

type membership struct {
	client *Client
	room   string
}

type roomFrame struct {
	room  string
	frame Frame
	skip  *Client
	to    *Client
}

// Hub owns clients and room membership. Every mutation goes through the Run loop.
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	join       chan membership
	leave      chan membership
	broadcast  chan roomFrame
	done       chan struct{}
	stopOnce   sync.Once

	Logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    map[*Client]struct{}{},
		rooms:      map[string]map[*Client]struct{}{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan membership),
		leave:      make(chan membership),
		broadcast:  make(chan roomFrame, 256),
		done:       make(chan struct{}),
		Logger:     logger,
	}
}

// RunWithContext processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		// lifecycle events first so a broadcast never targets a half-registered client
		select {
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		case m := <-h.join:
			h.enter(m)
			continue
		case m := <-h.leave:
			h.exit(m)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			n := h.ClientCount()
			h.closeAll()
			h.log().WithField("clients_closed", n).Info("websocket hub stopped")
			return nil
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case m := <-h.join:
			h.enter(m)
		case m := <-h.leave:
			h.exit(m)
		case rf := <-h.broadcast:
			h.deliver(rf)
		}
	}
}

func (h *Hub) log() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log().WithFields(logrus.Fields{"user_id": c.userID, "total_clients": n}).Debug("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		h.drop(c)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log().WithFields(logrus.Fields{"user_id": c.userID, "total_clients": n}).Debug("websocket client disconnected")
}

// drop detaches c from every room and closes its send channel. Caller holds mu.
func (h *Hub) drop(c *Client) {
	for room := range c.rooms {
		if members := h.rooms[room]; members != nil {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.rooms = nil
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) enter(m membership) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[m.client]; !ok {
		return
	}
	members := h.rooms[m.room]
	if members == nil {
		members = map[*Client]struct{}{}
		h.rooms[m.room] = members
	}
	members[m.client] = struct{}{}
	if m.client.rooms == nil {
		m.client.rooms = map[string]struct{}{}
	}
	m.client.rooms[m.room] = struct{}{}
}

func (h *Hub) exit(m membership) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members := h.rooms[m.room]; members != nil {
		delete(members, m.client)
		if len(members) == 0 {
			delete(h.rooms, m.room)
		}
	}
	delete(m.client.rooms, m.room)
}

// deliver sends to one client or to every member of the room in client id order.
func (h *Hub) deliver(rf roomFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rf.to != nil {
		if _, ok := h.clients[rf.to]; ok {
			h.offer([]*Client{rf.to}, rf)
		}
		return
	}
	if rf.skip != nil {
		// relayed client frames only reach rooms the sender joined
		if _, ok := h.rooms[rf.room][rf.skip]; !ok {
			return
		}
	}
	members := make([]*Client, 0, len(h.rooms[rf.room]))
	for c := range h.rooms[rf.room] {
		if c != rf.skip {
			members = append(members, c)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].id < members[j].id })
	h.offer(members, rf)
}

// offer sends without blocking; clients whose buffer is full are dropped. Caller holds mu.
func (h *Hub) offer(members []*Client, rf roomFrame) {
	var slow []*Client
	for _, c := range members {
		select {
		case c.send <- rf.frame:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.drop(c)
		h.log().WithFields(logrus.Fields{"user_id": c.userID, "room": rf.room}).Warn("dropping slow websocket client")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
	h.rooms = map[string]map[*Client]struct{}{}
}

// Broadcast queues an event for every client in room. The event is lost when
// the queue is full or the hub has stopped.
func (h *Hub) Broadcast(room, event string, data any) {
	h.publish(roomFrame{room: room, frame: Frame{Type: event, Room: room, Data: data}})
}

// reply queues a frame for a single client.
func (h *Hub) reply(c *Client, f Frame) {
	h.publish(roomFrame{room: f.Room, frame: f, to: c})
}

func (h *Hub) publish(rf roomFrame) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- rf:
	default:
		h.log().WithFields(logrus.Fields{"room": rf.room, "type": rf.frame.Type}).Warn("websocket broadcast queue full, event dropped")
	}
}

// send hands a request to the run loop unless the hub has stopped.
func send[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
