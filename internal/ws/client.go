package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Client is one websocket connection for an authenticated user. A user may
// hold several clients at once (multiple tabs or devices).
type Client struct {
	ID     string
	UserID uuid.UUID

	conn *websocket.Conn
	send chan []byte
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// WriteLoop drains the send channel onto the connection and keeps the
// connection alive with pings. It returns when ctx ends or the hub closes
// the send channel.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case msg, ok := <-c.send:
			if !ok {
				c.close()
				return
			}
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.TextMessage, msg)
			c.mu.Unlock()
		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
		}
	}
}

// ReadLoop discards inbound frames; the socket is push only. It unblocks
// when the peer goes away, which is the disconnect signal for the hub.
func (c *Client) ReadLoop() {
	c.conn.SetReadLimit(4096)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Deliver enqueues a payload without blocking; a slow consumer drops frames
// rather than stalling the hub.
func (c *Client) Deliver(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) close() {
	c.mu.Lock()
	_ = c.conn.Close()
	c.mu.Unlock()
}
