package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raykavin/timechart/core"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PointerEvent is a pointer interaction reported by the browser in
// drawing-surface pixel coordinates.
type PointerEvent struct {
	Type  string  `json:"type"` // move, leave, enter-marker, leave-marker
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// WebSocketManager handles WebSocket connections. Outbound frames fan
// out through a broadcast channel; inbound pointer events are handed to
// the view through the onEvent callback.
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]bool
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	onEvent       func(PointerEvent)
	log           core.Logger
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(log core.Logger, onEvent func(PointerEvent)) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 100),
		onEvent:       onEvent,
		log:           log,
	}

	// Start broadcast handler
	go manager.handleBroadcasts()

	return manager
}

// Broadcast queues a message for every connected client. Queuing never
// blocks the caller; when the channel is full the frame is dropped and
// a newer one will follow.
func (m *WebSocketManager) Broadcast(msg WebSocketMessage) {
	select {
	case m.broadcastChan <- msg:
	default:
		m.log.Debug("dropping broadcast, channel full")
	}
}

// handleBroadcasts processes messages from the broadcast channel
func (m *WebSocketManager) handleBroadcasts() {
	for msg := range m.broadcastChan {
		m.RLock()
		for conn := range m.clients {
			if err := conn.WriteJSON(msg); err != nil {
				m.log.Error("Error sending WebSocket message: ", err)
				conn.Close()
				// Removal happens in the client handler once the read
				// loop detects the closed connection.
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket upgrades the connection and starts the read loop.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	m.Lock()
	m.clients[conn] = true
	clientCount := len(m.clients)
	m.Unlock()

	m.log.Info("New WebSocket client connected, total: ", clientCount)

	go m.handleClient(conn)
}

// handleClient processes pointer events from a client until disconnect.
func (m *WebSocketManager) handleClient(conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		m.log.Info("WebSocket client disconnected, remaining: ", len(m.clients))
		m.Unlock()
		conn.Close()
	}()

	// Keep connection alive with ping/pong
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	for {
		var ev PointerEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Error("WebSocket read error: ", err)
			}
			break
		}
		if m.onEvent != nil {
			m.onEvent(ev)
		}
	}
}
