package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats_Snapshot(t *testing.T) {
	req := require.New(t)
	stats := NewStats()

	stats.IncrConnectionsOpened()
	stats.IncrConnectionsOpened()
	stats.IncrConnectionsClosed()
	stats.IncrBroadcasts()
	stats.IncrUnicasts()
	stats.IncrDroppedEvents()
	stats.IncrJobsStored()
	stats.IncrMessagesStored()

	snapshot := stats.Snapshot()
	req.Equal(uint64(2), snapshot.ConnectionsOpened)
	req.Equal(uint64(1), snapshot.ConnectionsClosed)
	req.Equal(uint64(1), snapshot.ActiveConnections)
	req.Equal(uint64(1), snapshot.Broadcasts)
	req.Equal(uint64(1), snapshot.Unicasts)
	req.Equal(uint64(1), snapshot.DroppedEvents)
	req.Equal(uint64(1), snapshot.JobsStored)
	req.Equal(uint64(1), snapshot.MessagesStored)
}

func TestStats_Concurrent_Increments(t *testing.T) {
	req := require.New(t)
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.IncrUnicasts()
		}()
	}
	wg.Wait()

	req.Equal(uint64(50), stats.Snapshot().Unicasts)
}
