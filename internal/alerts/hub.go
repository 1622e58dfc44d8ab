// internal/alerts/hub.go
// Websocket fan-out for the caregiver dashboard alert feed

package alerts

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth happens before the upgrade; origin is not restricted
		return true
	},
}

type broadcastEvent struct {
	userIDs []int64
	event   AlertEvent
}

// Hub maintains active websocket connections keyed by user ID
type Hub struct {
	clients    map[int64][]*client
	clientsMux sync.RWMutex

	broadcast  chan broadcastEvent
	register   chan *client
	unregister chan *client

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a new alert feed hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[int64][]*client),
		broadcast:  make(chan broadcastEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Run processes hub events until Shutdown is called
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.broadcast:
			h.deliver(ev)
		case <-h.ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Shutdown closes every connection and stops the hub
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Broadcast queues an event for every connected client among userIDs
func (h *Hub) Broadcast(userIDs []int64, event AlertEvent) {
	select {
	case h.broadcast <- broadcastEvent{userIDs: userIDs, event: event}:
	default:
		log.Printf("alerts: hub broadcast queue full, dropping event %s", event.Type)
	}
}

// ServeWS upgrades the request and attaches the connection to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("alerts: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		userID: userID,
		send:   make(chan AlertEvent, 16),
	}

	// the hub stops draining register once it shuts down, so a late
	// upgrade must not park the handler goroutine forever
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) addClient(c *client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	h.clients[c.userID] = append(h.clients[c.userID], c)
}

func (h *Hub) removeClient(c *client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	conns := h.clients[c.userID]
	for i, other := range conns {
		if other == c {
			h.clients[c.userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.clients[c.userID]) == 0 {
		delete(h.clients, c.userID)
	}
}

func (h *Hub) deliver(ev broadcastEvent) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for _, userID := range ev.userIDs {
		for _, c := range h.clients[userID] {
			select {
			case c.send <- ev.event:
			default:
				// Slow consumer; drop rather than block the hub
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for _, conns := range h.clients {
		for _, c := range conns {
			close(c.send)
		}
	}
	h.clients = make(map[int64][]*client)
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan AlertEvent
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The alert feed is one-way; incoming frames are drained for
	// close/pong handling only
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("alerts: websocket read error: %v", err)
			}
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
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
