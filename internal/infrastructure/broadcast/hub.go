// Package broadcast pushes accepted match mutations to websocket
// subscribers. Delivery is best-effort: a slow subscriber is dropped rather
// than allowed to stall the hub.
package broadcast

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type frame struct {
	matchID string
	data    []byte
}

// Client is one websocket subscriber, pinned to a single match.
type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// Hub fans frames out to the subscribers of each match.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan frame
	logger     *slog.Logger

	mu      sync.RWMutex
	clients map[*client]bool
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan frame, 256),
		logger:     logger,
		clients:    make(map[*client]bool),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "match_id", c.matchID, "total", total)
		case c := <-h.unregister:
			h.drop(c)
		case f := <-h.broadcast:
			h.fanOut(f)
		}
	}
}

// Publish queues one encoded frame for the subscribers of a match. Frames
// are dropped when the hub backlog is full.
func (h *Hub) Publish(matchID string, data []byte) {
	select {
	case h.broadcast <- frame{matchID: matchID, data: data}:
	default:
		h.logger.Warn("broadcast backlog full, dropping frame", "match_id", matchID)
	}
}

// ServeWS upgrades the request and subscribes the connection to one match.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		matchID: matchID,
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (h *Hub) fanOut(f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.matchID != f.matchID {
			continue
		}
		select {
		case c.send <- f.data:
		default:
			// Slow consumer; sever it outside the read lock.
			go func(c *client) { h.unregister <- c }(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Subscribers only listen; inbound frames are drained for control
	// handling.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
