package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"agrotrust/internal/domain/entity"
	"agrotrust/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Role   entity.Role
	Conn   *websocket.Conn
	Send   chan []byte
}

// sees reports whether the client is a party to the event. Admins see every
// event and listings are public.
func (c *Client) sees(evt entity.Event) bool {
	if c.Role == entity.RoleAdmin || evt.Type == entity.EventListingCreated {
		return true
	}
	switch c.Role {
	case entity.RoleFarmer:
		return evt.Data["farmer_id"] == c.UserID
	case entity.RoleConsumer:
		return evt.Data["consumer_id"] == c.UserID
	}
	return false
}

// Manager fans lifecycle events out to connected dashboards.
type Manager struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan entity.Event
	done       chan struct{}
	once       sync.Once
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan entity.Event, 64),
		done:       make(chan struct{}),
	}
}

// Run is the manager's main loop. It returns when ctx is done, after closing
// every client.
func (m *Manager) Run(ctx context.Context) {
	defer m.once.Do(func() { close(m.done) })

	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client] = true
			m.mutex.Unlock()
			logger.Debug("Client registered: %s (%s)", client.UserID, client.Role)

		case client := <-m.unregister:
			m.remove(client)
			logger.Debug("Client unregistered: %s", client.UserID)

		case evt := <-m.broadcast:
			payload, err := json.Marshal(evt)
			if err != nil {
				logger.Error("Failed to encode event %s: %v", evt.Type, err)
				continue
			}
			m.mutex.RLock()
			var slow []*Client
			for client := range m.clients {
				if !client.sees(evt) {
					continue
				}
				select {
				case client.Send <- payload:
				default:
					slow = append(slow, client)
				}
			}
			m.mutex.RUnlock()
			for _, client := range slow {
				m.remove(client)
			}

		case <-ctx.Done():
			m.mutex.Lock()
			for client := range m.clients {
				delete(m.clients, client)
				close(client.Send)
			}
			m.mutex.Unlock()
			return
		}
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		close(client.Send)
	}
}

// Publish queues an event for delivery. It never blocks: events are dropped
// when the queue is full or the manager has stopped.
func (m *Manager) Publish(evt entity.Event) {
	select {
	case <-m.done:
		return
	default:
	}

	select {
	case m.broadcast <- evt:
	default:
		logger.Warn("Event queue full, dropping %s for %s", evt.Type, evt.EntityID)
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// Serve registers conn and pumps events to it until either side goes away.
func (m *Manager) Serve(conn *websocket.Conn, actor entity.Actor) {
	client := &Client{
		UserID: actor.ID,
		Role:   actor.Role,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	select {
	case m.register <- client:
	case <-m.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(m)
}

// readPump only watches for close and pong frames; clients do not send events.
func (c *Client) readPump(m *Manager) {
	defer func() {
		select {
		case m.unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
