package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"chat-relay/gate"
	"chat-relay/protocol"
	"chat-relay/relay"
)

// Transport security is delegated to the hosting environment, so every
// origin is accepted here.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades incoming connections and gates them on a valid join
// token before any session state exists.
type Handler struct {
	log        *slog.Logger
	room       *relay.Room
	tokens     *gate.TokenStore
	sendBuffer int
}

func NewHandler(log *slog.Logger, room *relay.Room, tokens *gate.TokenStore, sendBuffer int) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Handler{log: log, room: room, tokens: tokens, sendBuffer: sendBuffer}
}

// ServeHTTP performs the connection handshake. A missing or unknown
// token gets a single error frame and a forced close; no registry entry
// is ever created for such a connection. With a valid token the
// connection enters the awaiting-join state and its pumps start.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	token := r.URL.Query().Get("token")
	if _, ok := h.tokens.Lookup(token); !ok {
		h.reject(conn)
		return
	}

	c := newClient(conn, h.room, h.log, h.sendBuffer)
	go c.writePump()
	go c.readPump()
}

func (h *Handler) reject(conn *websocket.Conn) {
	if payload, err := protocol.Encode(protocol.NewError("auth required")); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "auth required"))
	_ = conn.Close()
	h.log.Warn("Rejected connection without valid join token", "addr", conn.RemoteAddr().String())
}
