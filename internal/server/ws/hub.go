// Package ws pushes live session updates to browsers over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alanyoungcy/streakwatch/internal/domain"
	"github.com/alanyoungcy/streakwatch/internal/server/middleware"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 512

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 32
)

// SessionViewer supplies the view sent to a client right after it connects.
type SessionViewer interface {
	View(ctx context.Context, sessionID string) domain.SessionView
}

// Config holds hub options.
type Config struct {
	// AllowedOrigins lists extra origins permitted to open a socket. The
	// page's own origin is always allowed; "*" allows any origin.
	AllowedOrigins []string
}

// client represents a single WebSocket connection bound to one session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	cancel    context.CancelFunc
}

// delivery is a message addressed to one client. Only the hub loop writes
// to or closes a client's send channel.
type delivery struct {
	client *client
	data   []byte
}

// Hub manages connected WebSocket clients. Each client follows the bus
// channel of its own session and never sees other sessions' updates.
type Hub struct {
	clients    map[*client]bool
	deliver    chan delivery
	register   chan *client
	unregister chan *client
	done       chan struct{}
	bus        domain.SignalBus
	views      SessionViewer
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates a hub that bridges the session SignalBus to WebSocket
// clients.
func NewHub(bus domain.SignalBus, views SessionViewer, cfg Config, logger *slog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		deliver:    make(chan delivery, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		bus:        bus,
		views:      views,
		logger:     logger.With(slog.String("component", "ws_hub")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
	}
	return h
}

// Run starts the hub's main event loop. It handles client registration,
// unregistration and message delivery, and exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.cancel()
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("ws: client connected",
				slog.String("session_id", c.sessionID),
				slog.Int("total_clients", h.ClientCount()),
			)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.cancel()
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("ws: client disconnected",
				slog.String("session_id", c.sessionID),
				slog.Int("total_clients", h.ClientCount()),
			)

		case d := <-h.deliver:
			h.mu.RLock()
			if h.clients[d.client] {
				select {
				case d.client.send <- d.data:
				default:
					h.logger.Warn("ws: dropping message for slow client",
						slog.String("session_id", d.client.sessionID),
					)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// HandleWS upgrades an HTTP request to a WebSocket connection bound to the
// caller's session, sends the current view and then follows the session's
// bus channel.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", slog.String("error", err.Error()))
		return
	}

	// The request context ends when this handler returns; the socket outlives it.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
		cancel:    cancel,
	}

	msgs, err := h.bus.Subscribe(ctx, domain.SessionChannel(sessionID))
	if err != nil {
		h.logger.Error("ws: failed to subscribe to session channel",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		cancel()
		conn.Close()
		return
	}

	select {
	case h.register <- c:
	case <-h.done:
		cancel()
		conn.Close()
		return
	}

	h.sendInitialView(ctx, c)

	go c.forward(ctx, msgs)
	go c.writePump()
	go c.readPump()
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// enqueue hands a message to the hub loop. It gives up when ctx ends or the
// hub has stopped.
func (h *Hub) enqueue(ctx context.Context, c *client, data []byte) {
	select {
	case h.deliver <- delivery{client: c, data: data}:
	case <-ctx.Done():
	case <-h.done:
	}
}

// sendInitialView pushes the session's current state so the page is in sync
// even if it was rendered before the latest mutation.
func (h *Hub) sendInitialView(ctx context.Context, c *client) {
	view := h.views.View(ctx, c.sessionID)
	data, err := json.Marshal(domain.SessionEvent{Type: domain.EventSessionUpdate, Payload: view})
	if err != nil {
		h.logger.Error("ws: marshal initial view failed", slog.String("error", err.Error()))
		return
	}
	h.enqueue(ctx, c, data)
}

// forward relays bus messages for the client's session until the
// subscription ends.
func (c *client) forward(ctx context.Context, msgs <-chan []byte) {
	for data := range msgs {
		c.hub.enqueue(ctx, c, data)
	}
}

// readPump drains incoming frames so control messages are processed; the
// protocol is push-only and client payloads are ignored.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: unexpected close error",
					slog.String("session_id", c.sessionID),
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection as JSON
// text frames and sends periodic pings for keepalive.
func (c *client) writePump() {
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
				// The hub closed the channel.
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

// checkOrigin allows same-host requests, requests without an Origin header
// and any origin in allowed.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
