package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"psi-arena/internal/game"
	"psi-arena/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients don't send Origin
		}
		if !sameHostOrigin(origin, r.Host) {
			RecordConnectionRejected("origin")
			return false
		}
		return true
	},
}

func sameHostOrigin(origin, host string) bool {
	// Accept http(s)://<host> only.
	for _, scheme := range []string{"http://", "https://"} {
		if origin == scheme+host {
			return true
		}
	}
	return false
}

// newConnID returns a random hex connection identifier.
func newConnID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Client is one WebSocket session. The read pump feeds the engine; the
// write pump drains the bounded send buffer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
	ip   string
}

// Hub tracks connected clients and implements game.Dispatcher, so the
// engine can stay ignorant of websockets entirely.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	engine  *game.Engine
}

// NewHub creates an empty hub. AttachEngine must be called before serving.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// AttachEngine wires the engine the hub routes actions to. Separate from
// NewHub because engine and hub reference each other.
func (h *Hub) AttachEngine(e *game.Engine) {
	h.engine = e
}

// SessionCount returns the number of connected clients.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	UpdateSessions(h.SessionCount())
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	UpdateSessions(h.SessionCount())
}

// SendTo delivers an event to one session. Unknown ids are ignored: the
// session may have disconnected between resolution and dispatch.
func (h *Hub) SendTo(connID string, msg game.Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c != nil {
		c.enqueue(data)
	}
}

// Broadcast delivers an event to every session.
func (h *Hub) Broadcast(msg game.Envelope) {
	h.broadcast(msg, "")
}

// BroadcastExcept delivers an event to every session but one, the usual
// shape for visual echoes of the actor's own input.
func (h *Hub) BroadcastExcept(connID string, msg game.Envelope) {
	h.broadcast(msg, connID)
}

func (h *Hub) broadcast(msg game.Envelope, skip string) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == skip {
			continue
		}
		c.enqueue(data)
	}
}

// enqueue drops the frame if the client's buffer is full; a slow consumer
// must not stall the engine or other sessions.
func (c *Client) enqueue(data []byte) {
	defer func() { recover() }() // send on closed channel during teardown
	select {
	case c.send <- data:
	default:
	}
}

// HandleWS upgrades the connection, registers the session with the engine,
// and runs the pumps.
func (h *Hub) HandleWS(conns *ConnCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !conns.Acquire(ip) {
			RecordConnectionRejected("ip_limit")
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			conns.Release(ip)
			logging.L.Debugw("upgrade failed", "err", err)
			return
		}

		name := r.URL.Query().Get("name")
		level, _ := strconv.Atoi(r.URL.Query().Get("level"))

		c := &Client{
			hub:  h,
			conn: conn,
			send: make(chan []byte, sendBufSize),
			id:   newConnID(),
			ip:   ip,
		}
		h.add(c)

		if !h.engine.Connect(c.id, name, level) {
			RecordConnectionRejected("full")
			h.remove(c)
			conns.Release(ip)
			conn.Close()
			return
		}

		go c.writePump()
		go func() {
			c.readPump()
			h.engine.Disconnect(c.id)
			h.remove(c)
			conns.Release(ip)
		}()
	}
}

// readPump decodes inbound frames and submits them to the engine. The
// transport validates nothing beyond the envelope shape; payload
// validation is the engine's job.
func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.L.Debugw("ws read error", "conn", c.id, "err", err)
			}
			return
		}

		var env game.InEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			continue
		}
		kind := game.ParseActionKind(env.T)
		if kind == game.ActionUnknown {
			continue
		}
		RecordAction(env.T)
		c.hub.engine.Submit(game.Action{ConnID: c.id, Kind: kind, Payload: env.D})
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
