package notification

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type wsClient struct {
	tenantID int64
	userID   int64
}

// Hub tracks open websocket connections keyed by tenant and user. A
// user may hold several connections (multiple tabs or devices); emits
// fan out to all of them. Writes happen under the hub lock, so a slow
// client never corrupts another's frame.
type Hub struct {
	clients map[*websocket.Conn]wsClient
	logger  *slog.Logger
	mu      sync.Mutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]wsClient),
		logger:  logger,
	}
}

var _ Notifier = (*Hub)(nil)

func (h *Hub) Register(conn *websocket.Conn, tenantID, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = wsClient{tenantID: tenantID, userID: userID}
	h.logger.Debug("websocket client registered", "user_id", userID, "tenant_id", tenantID)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) EmitToUser(tenantID, userID int64, event string, data interface{}) {
	h.emit(event, data, func(c wsClient) bool {
		return c.tenantID == tenantID && c.userID == userID
	})
}

func (h *Hub) EmitToTenant(tenantID int64, event string, data interface{}) {
	h.emit(event, data, func(c wsClient) bool {
		return c.tenantID == tenantID
	})
}

func (h *Hub) emit(event string, data interface{}, match func(wsClient) bool) {
	payload, err := json.Marshal(wsMessage{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, client := range h.clients {
		if !match(client) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("failed to write websocket message",
				"user_id", client.userID,
				"error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
