package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stivas/ipfs-desktop/internal/daemon"
	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/settings"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message is the frame exchanged with the page over /events. The page
// requests "status" or "settings"; the hub answers with the same type
// and also pushes unsolicited "status" frames on daemon transitions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// clientRequest is a page request routed through the hub loop, so the
// reply send and the send-channel close cannot race.
type clientRequest struct {
	client *wsClient
	msg    Message
}

// Hub fans daemon status and settings snapshots out to connected pages.
// Run is the only goroutine that sends on or closes a client's send
// channel.
type Hub struct {
	store      *settings.Store
	statusFn   func() daemon.Status
	upgrader   websocket.Upgrader
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan Message
	requests   chan clientRequest
	done       chan struct{}
	clients    map[*wsClient]struct{}
}

func NewHub(store *settings.Store, statusFn func() daemon.Status, pageOrigin string) *Hub {
	return &Hub{
		store:    store,
		statusFn: statusFn,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == pageOrigin
			},
		},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan Message, 16),
		requests:   make(chan clientRequest),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
	}
}

// Run owns the client set until ctx is cancelled. Closing h.done lets
// the client pumps bail out instead of blocking on a stopped loop.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case req := <-h.requests:
			if _, ok := h.clients[req.client]; !ok {
				continue
			}
			if reply, ok := h.handle(req.msg); ok {
				select {
				case req.client.send <- reply:
				default:
				}
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// BroadcastStatus pushes a daemon status transition to every page.
func (h *Hub) BroadcastStatus(st daemon.Status) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- Message{Type: "status", Payload: payload}:
	default:
		logger.Bridge.Warn().Msg("status broadcast dropped, hub congested")
	}
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Bridge.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &wsClient{hub: h, conn: conn, send: make(chan Message, 8)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Bridge.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		select {
		case c.hub.requests <- clientRequest{client: c, msg: msg}:
		case <-c.hub.done:
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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

// handle answers a page request. Unknown types are ignored.
func (h *Hub) handle(msg Message) (Message, bool) {
	switch msg.Type {
	case "status":
		payload, err := json.Marshal(h.statusFn())
		if err != nil {
			return Message{}, false
		}
		return Message{Type: "status", Payload: payload}, true
	case "settings":
		payload, err := json.Marshal(h.store.Snapshot())
		if err != nil {
			return Message{}, false
		}
		return Message{Type: "settings", Payload: payload}, true
	default:
		return Message{}, false
	}
}
