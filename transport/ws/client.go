// Package ws drives individual WebSocket connections: the join
// handshake, the read/write pumps, and the hand-off of decoded frames
// into the relay.
package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/protocol"
	"chat-relay/relay"
)

const (
	pongWait      = 60 * time.Second
	pingInterval  = 54 * time.Second
	writeWait     = 10 * time.Second
	maxFrameBytes = 4096
)

// client is one upgraded connection. It is the relay.Sink for that
// connection: broadcasts land in the buffered send channel and the
// write pump drains it. A full buffer means the connection is not
// currently writable and the frame is dropped for this client only.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	room   *relay.Room
	log    *slog.Logger
	joined bool
}

func newClient(conn *websocket.Conn, room *relay.Room, log *slog.Logger, sendBuffer int) *client {
	conn.SetReadLimit(maxFrameBytes)
	return &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		room: room,
		log:  log,
	}
}

// Send implements relay.Sink. It never blocks.
func (c *client) Send(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// readPump owns the connection's inbound side and the join state
// machine: frames before a successful join are discarded, except a
// well-formed join itself. It runs until the transport closes, then
// triggers the leave path.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.room.Leave(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Debug("Unexpected close", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeClient(raw)
		if err != nil {
			// Malformed payloads are dropped; the connection survives.
			continue
		}

		switch frame.Type {
		case protocol.KindJoin:
			if c.joined {
				continue
			}
			if _, ok := c.room.Join(c, frame.Username); ok {
				c.joined = true
			}
		case protocol.KindChat:
			if !c.joined {
				continue
			}
			c.room.HandleChat(c, frame.Text)
		default:
			// Unrecognized frame kinds are ignored.
		}
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with periodic pings. It exits when the read pump
// signals done or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
