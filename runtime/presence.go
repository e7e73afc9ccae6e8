package runtime

import (
	"sync"
)

// Presence holds the live user identity -> session id mapping.
// At most one session per identity: a user registering from a new
// connection silently overwrites the old entry.
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]string // user identity -> session id
}

func NewPresence() *Presence {
	return &Presence{sessions: make(map[string]string)}
}

// Register records the session currently speaking for userID.
// Unconditional and idempotent; the last registration wins.
func (p *Presence) Register(userID, sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions[userID] = sessionID
}

// Resolve returns the session owning userID. Absence is not an error,
// it means the recipient is currently offline.
func (p *Presence) Resolve(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sessionID, ok := p.sessions[userID]
	return sessionID, ok
}

// Unregister removes the entry owned by sessionID, if any.
// The lookup is by session id, not user identity: when a newer connection
// has already overwritten the user's entry, the old connection's
// disconnect must not evict the newer one. Disconnect is a point event,
// so the scan stops at the first match.
func (p *Presence) Unregister(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for userID, owned := range p.sessions {
		if owned == sessionID {
			delete(p.sessions, userID)
			return
		}
	}
}

// Count reports how many identities are currently registered.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.sessions)
}
