package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pphistory/internal/infrastructure"
)

// Hub maintains the set of active preview clients and broadcasts build events to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger

	// Metrics
	totalConnections int64
	messagesSent     int64
	dropped          int64

	now func() time.Time
}

// Stats is a snapshot of hub counters
type Stats struct {
	ActiveClients    int   `json:"active_clients"`
	TotalConnections int64 `json:"total_connections"`
	MessagesSent     int64 `json:"messages_sent"`
	Dropped          int64 `json:"dropped"`
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
		now:        time.Now,
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			if msg, err := encode(TypeConnection, map[string]string{"client_id": client.id}, h.now()); err == nil {
				h.trySend(client, msg)
			}

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				h.trySend(client, message)
			}

			h.logger.Debug("Broadcast sent",
				slog.Int("client_count", len(clients)),
				slog.Int("message_size", len(message)))
		}
	}
}

// trySend queues message for client, disconnecting clients whose buffer is full
func (h *Hub) trySend(client *Client, message []byte) {
	select {
	case client.send <- message:
		h.mu.Lock()
		h.messagesSent++
		h.mu.Unlock()
	default:
		h.logger.Warn("Client send buffer full, disconnecting",
			slog.String("client_id", client.id))
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// BroadcastReload tells every page to reload after a successful build
func (h *Hub) BroadcastReload(data ReloadData) {
	h.broadcastMessage(TypeReload, data)
}

// BroadcastBuildError reports a failed rebuild to every page
func (h *Hub) BroadcastBuildError(data BuildErrorData) {
	h.broadcastMessage(TypeBuildError, data)
}

func (h *Hub) broadcastMessage(msgType string, data interface{}) {
	msg, err := encode(msgType, data, h.now())
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", msgType))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast queue full, dropping message",
			slog.String("message_type", msgType))
	}
}

// Register adds a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the hub counters
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		ActiveClients:    len(h.clients),
		TotalConnections: h.totalConnections,
		MessagesSent:     h.messagesSent,
		Dropped:          h.dropped,
	}
}
