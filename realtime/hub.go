package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"job-board/domain/event"
	"job-board/errors"
	"job-board/observability"
)

// Hub multiplexes the live connections. It knows sessions, not users:
// identity resolution belongs to the presence registry.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // session id -> client
	bufferSize int
	log        *slog.Logger
	stats      *observability.Stats
}

func NewHub(log *slog.Logger, bufferSize int, stats *observability.Stats) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		bufferSize: bufferSize,
		log:        log,
		stats:      stats,
	}
}

// Add assigns a fresh session id to the connection and starts tracking it.
// A reconnecting client comes back through here and gets a new id.
func (h *Hub) Add(conn *websocket.Conn) *Client {
	client := &Client{
		ID:    uuid.NewString(),
		conn:  conn,
		send:  make(chan event.DomainEvent, h.bufferSize),
		done:  make(chan struct{}),
		log:   h.log,
		stats: h.stats,
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.stats.IncrConnectionsOpened()
	h.log.Info("Client connected", "session_id", client.ID)
	return client
}

// Remove stops tracking the session and tears its pumps down.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()

	client.close()
	h.stats.IncrConnectionsClosed()
	h.log.Info("Client disconnected", "session_id", client.ID)
}

// Unicast delivers one event to one session. An unknown session means the
// presence entry outlived the connection; callers decide whether that is
// an error or merely an offline recipient.
func (h *Hub) Unicast(ctx context.Context, sessionID string, e event.DomainEvent) error {
	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrSessionUnknown, sessionID)
	}
	if err := client.Consume(ctx, e); err != nil {
		return err
	}
	h.stats.IncrUnicasts()
	return nil
}

// Broadcast delivers one event to every connected session, registered or
// not. There is no "no subscribers" condition.
func (h *Hub) Broadcast(ctx context.Context, e event.DomainEvent) {
	h.mu.RLock()
	targets := lo.Values(h.clients)
	h.mu.RUnlock()

	for _, client := range targets {
		_ = client.Consume(ctx, e)
	}
	h.stats.IncrBroadcasts()
}

// Count reports the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
