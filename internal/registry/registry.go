package registry

import (
	"sync"
)

// Peer is the send side of one live connection. Push is fire-and-forget:
// it reports whether the payload was accepted, never blocks and never errors.
type Peer interface {
	Push(payload []byte) bool
}

// Registry maps a user id to the peer for that user's live connection.
// It is strictly per-process: a peer registered on another instance is
// invisible here, so room fan-out only reaches locally connected members.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

func New() *Registry {
	return &Registry{
		peers: make(map[string]Peer),
	}
}

// Register inserts or silently replaces the mapping for userID and returns
// the superseded peer, if any. Last writer wins; the previous connection is
// not closed here, that is the caller's decision.
func (r *Registry) Register(userID string, p Peer) Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.peers[userID]
	r.peers[userID] = p
	return prev
}

func (r *Registry) Lookup(userID string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[userID]
	return p, ok
}

// Unregister removes the mapping for userID only while it still points at p,
// so a disconnect racing a reconnect cannot evict the newer registration.
// It reports whether the mapping was removed.
func (r *Registry) Unregister(userID string, p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.peers[userID]
	if !ok || cur != p {
		return false
	}
	delete(r.peers, userID)
	return true
}

// Len reports the number of registered peers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
