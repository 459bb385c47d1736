package server

import (
	"context"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/gridsight/forecast-dashboard/internal/backend"
	"github.com/gridsight/forecast-dashboard/internal/metrics"
	"github.com/gridsight/forecast-dashboard/internal/view"
)

type wsMessage struct {
	Type string          `json:"type"`
	Data view.AlertState `json:"data"`
}

// hub fans alert updates out to connected browsers. Consumers only read;
// the poller is the single writer.
type hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	last      *wsMessage
	broadcast chan wsMessage
}

func newHub() *hub {
	return &hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan wsMessage, 16),
	}
}

func (h *hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			h.last = &msg
			for conn := range h.clients {
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *hub) serve(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	if h.last != nil {
		conn.WriteJSON(*h.last)
	}
	h.mu.Unlock()
	metrics.WebsocketClients.Inc()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		metrics.WebsocketClients.Dec()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) publishAlerts(resp *backend.AlertsResponse) {
	msg := wsMessage{Type: "alerts", Data: view.DeriveAlerts(resp)}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Msg("alert broadcast channel full, dropping update")
	}
}
