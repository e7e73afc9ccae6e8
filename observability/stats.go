package observability

import (
	"sync/atomic"
)

// Stats aggregates delivery telemetry for the /stats endpoint.
// Counters are atomic so the hub, the router and the connection handlers
// can bump them without coordination.
type Stats struct {
	connectionsOpened uint64
	connectionsClosed uint64
	broadcasts        uint64
	unicasts          uint64
	droppedEvents     uint64
	jobsStored        uint64
	messagesStored    uint64
}

// Snapshot is the JSON shape served to operators.
type Snapshot struct {
	ConnectionsOpened uint64 `json:"connections_opened"`
	ConnectionsClosed uint64 `json:"connections_closed"`
	ActiveConnections uint64 `json:"active_connections"`
	Broadcasts        uint64 `json:"broadcasts"`
	Unicasts          uint64 `json:"unicasts"`
	DroppedEvents     uint64 `json:"dropped_events"`
	JobsStored        uint64 `json:"jobs_stored"`
	MessagesStored    uint64 `json:"messages_stored"`
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) IncrConnectionsOpened() {
	atomic.AddUint64(&s.connectionsOpened, 1)
}

func (s *Stats) IncrConnectionsClosed() {
	atomic.AddUint64(&s.connectionsClosed, 1)
}

func (s *Stats) IncrBroadcasts() {
	atomic.AddUint64(&s.broadcasts, 1)
}

func (s *Stats) IncrUnicasts() {
	atomic.AddUint64(&s.unicasts, 1)
}

func (s *Stats) IncrDroppedEvents() {
	atomic.AddUint64(&s.droppedEvents, 1)
}

func (s *Stats) IncrJobsStored() {
	atomic.AddUint64(&s.jobsStored, 1)
}

func (s *Stats) IncrMessagesStored() {
	atomic.AddUint64(&s.messagesStored, 1)
}

// Snapshot reads every counter once. Values may skew by an event or two
// relative to each other; the endpoint is informational, not transactional.
func (s *Stats) Snapshot() Snapshot {
	opened := atomic.LoadUint64(&s.connectionsOpened)
	closed := atomic.LoadUint64(&s.connectionsClosed)
	var active uint64
	if opened > closed {
		active = opened - closed
	}
	return Snapshot{
		ConnectionsOpened: opened,
		ConnectionsClosed: closed,
		ActiveConnections: active,
		Broadcasts:        atomic.LoadUint64(&s.broadcasts),
		Unicasts:          atomic.LoadUint64(&s.unicasts),
		DroppedEvents:     atomic.LoadUint64(&s.droppedEvents),
		JobsStored:        atomic.LoadUint64(&s.jobsStored),
		MessagesStored:    atomic.LoadUint64(&s.messagesStored),
	}
}
