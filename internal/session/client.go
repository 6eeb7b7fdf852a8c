package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeshare/internal/models"
)

// Client wraps one live websocket connection. Each client gets a fresh
// connection id and is bound to at most one room at a time.
type Client struct {
	ID   string
	Conn *websocket.Conn

	mu   sync.Mutex
	room string
	hook func(models.WSFrame)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), Conn: conn}
}

// Bind records the room this connection currently belongs to. An empty id
// returns the client to the unbound state.
func (c *Client) Bind(roomID string) {
	c.mu.Lock()
	c.room = roomID
	c.mu.Unlock()
}

// RoomID returns the currently bound room id, or "" when unbound.
func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send is fire-and-forget: write errors are dropped, the read loop notices
// a dead connection on its own.
func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
