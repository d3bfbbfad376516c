package signaling

import (
	"context"
	"fmt"
	"log"

	"meeting-app-backend/internal/membership"
	"meeting-app-backend/internal/registry"
)

// Router resolves a delivery target to live connections and pushes payloads
// through the registry. Delivery is fire-and-forget: there is no ack, retry
// or confirmation, and an offline target is a logged no-op, never an error.
//
// The registry is per-process, so room fan-out reaches only members connected
// to this instance; members registered elsewhere are listed by the store but
// silently skipped. Single-instance operation is the validated baseline.
type Router struct {
	reg   *registry.Registry
	store membership.Store
}

func NewRouter(reg *registry.Registry, store membership.Store) *Router {
	return &Router{
		reg:   reg,
		store: store,
	}
}

// RouteToUser delivers one envelope to userID's live connection, if any.
// It reports whether the payload was handed to a connection.
func (rt *Router) RouteToUser(userID string, env Envelope) bool {
	return rt.push(userID, encode(env))
}

// RouteToRoom wraps env and delivers it to every listed member of the room
// that is registered on this instance. Store failures propagate to the
// caller; push misses do not.
func (rt *Router) RouteToRoom(ctx context.Context, roomID string, env Envelope) error {
	return rt.fanout(ctx, roomID, encode(env))
}

// RelayToRoom delivers an already-encoded payload to the room as-is, with no
// envelope transformation. Used for free-form in-room messages.
func (rt *Router) RelayToRoom(ctx context.Context, roomID string, payload []byte) error {
	return rt.fanout(ctx, roomID, payload)
}

func (rt *Router) fanout(ctx context.Context, roomID string, payload []byte) error {
	members, err := rt.store.ListMembers(ctx, roomID)
	if err != nil {
		return fmt.Errorf("room %s fan-out: %w", roomID, err)
	}
	for userID := range members {
		rt.push(userID, payload)
	}
	return nil
}

func (rt *Router) push(userID string, payload []byte) bool {
	if payload == nil {
		return false
	}
	peer, ok := rt.reg.Lookup(userID)
	if !ok {
		log.Printf("[signal] %s is offline, dropping delivery", userID)
		droppedTotal.Inc()
		return false
	}
	if !peer.Push(payload) {
		// Saturated or closing connection, treated the same as offline.
		log.Printf("[signal] %s send buffer full, dropping delivery", userID)
		droppedTotal.Inc()
		return false
	}
	deliveredTotal.Inc()
	return true
}
