package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"job-board/domain/event"
	"job-board/observability"
)

var (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = int64(4096)
)

// Envelope is the wire frame in both directions: a named event plus its
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is one live connection. Its session id is server-assigned and
// changes on every reconnect; the client must re-register its identity
// after connecting.
type Client struct {
	ID        string
	conn      *websocket.Conn
	send      chan event.DomainEvent
	done      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
	stats     *observability.Stats
}

// Consume queues an event for this connection's write pump.
// It never blocks the router: a full buffer drops the event, which is the
// price of keeping one slow client from stalling everyone else's delivery.
func (c *Client) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case c.send <- e:
		return nil
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		c.stats.IncrDroppedEvents()
		c.log.Warn("Dropping event, client buffer full", "session_id", c.ID, "event", e.EventName())
		return nil
	}
}

// WritePump serializes queued events onto the socket and keeps the
// connection alive with periodic pings. Exactly one pump per connection,
// which preserves per-connection delivery order.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case e := <-c.send:
			data, err := json.Marshal(e)
			if err != nil {
				c.log.Error("Failed to encode event", "event", e.EventName(), "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(Envelope{Event: e.EventName(), Data: data}); err != nil {
				c.log.Debug("Write failed, dropping connection", "session_id", c.ID, "error", err)
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

// ReadPump delivers inbound envelopes to handle, in the order the client
// sent them. It returns when the connection drops; the caller owns the
// surrounding cleanup (hub removal, presence unregistration).
func (c *Client) ReadPump(handle func(env Envelope)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("Discarding unparsable frame", "session_id", c.ID, "error", err)
			continue
		}
		handle(env)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
