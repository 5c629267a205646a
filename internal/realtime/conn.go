package realtime

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin requests are allowed the same way the CORS middleware allows them.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Conn is one live websocket connection. rooms is guarded by the hub's lock.
type Conn struct {
	id   string
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte

	rooms map[uint]struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

func (h *Hub) newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		id:     uuid.NewString(),
		hub:    h,
		ws:     ws,
		send:   make(chan []byte, h.sendBuffer),
		closed: make(chan struct{}),
	}
}

// enqueue queues a frame without blocking. It reports false when the frame
// was dropped.
func (c *Conn) enqueue(frame []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// HandleWebsocket upgrades GET /ws and serves the connection until it closes.
func (h *Hub) HandleWebsocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	conn := h.newConn(ws)
	h.log.Debug().Str("conn_id", conn.id).Str("remote", c.RealIP()).Msg("websocket connected")

	go conn.writePump()
	conn.readPump()
	return nil
}

// readPump handles inbound frames until the socket fails, then unregisters the connection.
func (c *Conn) readPump() {
	defer func() {
		c.hub.leave(c)
		c.close()
		c.ws.Close()
		c.hub.log.Debug().Str("conn_id", c.id).Msg("websocket disconnected")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn().Err(err).Str("conn_id", c.id).Msg("websocket read failed")
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Conn) handleMessage(message []byte) {
	var in Envelope
	if err := json.Unmarshal(message, &in); err != nil {
		c.reply(EventError, "malformed message")
		return
	}

	switch in.Event {
	case EventJoin:
		userID, ok := parseUserID(in.Data)
		if !ok {
			c.reply(EventError, "join requires a numeric user id")
			return
		}
		c.hub.join(c, userID)
		c.hub.log.Debug().Str("conn_id", c.id).Uint("user_id", userID).Msg("joined room")
		c.reply(EventJoined, userID)
	default:
		c.reply(EventError, "unknown event "+strconv.Quote(in.Event))
	}
}

// parseUserID accepts both 42 and "42".
func parseUserID(raw json.RawMessage) (uint, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(s)
	}
	id, err := strconv.ParseUint(string(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (c *Conn) reply(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	c.enqueue(frame)
}

// writePump is the only writer of the socket.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
