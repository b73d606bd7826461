package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client drives one physical connection from handshake to teardown. It owns
// the socket; the registry only holds it as a relay.Conn for delivery.
type Client struct {
	id       string
	conn     *websocket.Conn
	send     chan []byte
	identity models.Identity

	// room is set for user sessions on activation and never changes.
	room *models.Room

	state  int32
	closed int32

	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     uuid.New().String(),
		conn:   conn,
		send:   make(chan []byte, 256),
		state:  int32(stateConnecting),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Enqueue implements relay.Conn. It never blocks: a full buffer means the
// peer stopped draining, which counts as a dead connection.
func (c *Client) Enqueue(frame []byte) error {
	if c.isClosed() {
		return relay.ErrConnClosed
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.ctx.Done():
		return relay.ErrConnClosed
	default:
		// Only mark the client closed here. c.send stays open: other
		// sessions may be enqueueing concurrently, and a send on a closed
		// channel panics. writePump exits through ctx.Done instead.
		slog.Warn("Send buffer full, closing client", "clientID", c.id, "userID", c.identity.ID)
		c.close()
		return relay.ErrConnClosed
	}
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.setState(stateClosed)
		c.cancel()
	}
}

// closeTransport tears the socket down without any registry interaction.
// Used for supersession: the superseded session notices through its own
// failed read, there is no out-of-band signal.
func (c *Client) closeTransport() {
	c.close()
	c.conn.Close()
}

// closeWithCode sends a close frame before dropping the connection.
func (c *Client) closeWithCode(code int, reason string) {
	deadline := time.Now().Add(writeWait)
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.close()
	c.conn.Close()
}

// readPump owns the socket's read side. The deferred teardown is the single
// exit path for a session: registry cleanup runs no matter how the loop
// ends.
func (c *Client) readPump(g *Gateway) {
	defer g.teardown(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.identity.ID, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.identity.ID, "error", err)
			}
			return
		}

		frame, ok := relay.ParseInbound(raw)
		if !ok {
			// Malformed frames are dropped, never fatal.
			slog.Debug("Ignoring malformed frame", "clientID", c.id, "userID", c.identity.ID)
			continue
		}

		switch c.identity.Role {
		case models.RoleUser:
			g.router.UserMessage(c.ctx, c.identity, c.room.ID, frame.Message)
		case models.RoleAdmin:
			g.router.AdminMessage(c.ctx, c.identity, c, frame.RoomID, frame.Message)
		}
	}
}

// writePump owns the socket's write side and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(frame)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
