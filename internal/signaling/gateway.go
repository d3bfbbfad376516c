package signaling

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"meeting-app-backend/internal/membership"
	"meeting-app-backend/internal/model"
	"meeting-app-backend/internal/registry"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway accepts signaling connections and runs each one through the
// connection lifecycle: handshake, registration, optional room join, event
// dispatch, and teardown with room leave. All application-level failures are
// recovered per connection and never terminate the process.
type Gateway struct {
	router *Router
	reg    *registry.Registry
	store  membership.Store

	// notifyOffline makes the gateway answer a point-to-point event whose
	// target has no live connection with a targetOffline envelope instead of
	// dropping it silently.
	notifyOffline bool
}

func NewGateway(router *Router, reg *registry.Registry, store membership.Store, notifyOffline bool) *Gateway {
	return &Gateway{
		router:        router,
		reg:           reg,
		store:         store,
		notifyOffline: notifyOffline,
	}
}

// ServeWS upgrades the request and drives the connection until it closes.
// userId is a mandatory query parameter; roomId is optional (lobby if absent).
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId query parameter required", http.StatusBadRequest)
		return
	}
	roomID := r.URL.Query().Get("roomId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Printf("[signal] upgrade failed for %s: %v", userID, err)
		return
	}

	s := newSession(conn, userID, roomID)
	log.Printf("[signal] %s online (session %s, room %q)", userID, s.ID, roomID)

	if prev := g.reg.Register(userID, s); prev != nil {
		// Last writer wins: the superseded connection is told to go away.
		log.Printf("[signal] %s reconnected, evicting previous session", userID)
		if old, ok := prev.(*Session); ok {
			old.evict()
		}
	}
	incConnections()

	go s.keepAlive()
	go s.writePump()

	ctx := context.Background()
	g.announceJoin(ctx, s)
	g.readLoop(ctx, s)
	g.teardown(ctx, s)
}

// announceJoin records the member in the store and tells the room, matching
// the CONNECTING -> ESTABLISHED transition.
func (g *Gateway) announceJoin(ctx context.Context, s *Session) {
	if s.RoomID == "" {
		return
	}
	detail := model.MemberDetail(s.UserID, s.RoomID)
	if err := g.store.Join(ctx, s.RoomID, s.UserID, detail); err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] join store failed for %s in %s: %v", s.UserID, s.RoomID, err)
		s.Push(encode(WrapError(EventJoin, "room join failed", http.StatusServiceUnavailable)))
		return
	}
	if err := g.router.RouteToRoom(ctx, s.RoomID, Wrap(EventJoin, s.UserID+"join the room")); err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] join broadcast failed for %s in %s: %v", s.UserID, s.RoomID, err)
	}
}

func (g *Gateway) readLoop(ctx context.Context, s *Session) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[signal] recovered from panic in read loop: %v", rec)
		}
	}()

	s.conn.SetReadLimit(512 * 1024)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					return
				}
			}
			log.Printf("[signal] read error for %s (%s): %v", s.UserID, s.ID, err)
			return
		}
		g.dispatch(ctx, s, raw)
	}
}

// dispatch validates one inbound event and reduces it to a router primitive.
func (g *Gateway) dispatch(ctx context.Context, s *Session, raw []byte) {
	ev, err := DecodeEvent(raw)
	if err != nil {
		log.Printf("[signal] malformed frame from %s: %v", s.UserID, err)
		s.Push(encode(WrapError(EventError, "malformed payload", http.StatusBadRequest)))
		return
	}

	switch {
	case IsSignal(ev.Type):
		g.forwardSignal(s, ev)

	case ev.Type == EventRoomUserList:
		g.replyRoomUserList(ctx, s, ev)

	case ev.Type == EventMessage:
		g.relayRoomMessage(ctx, s, ev)

	default:
		log.Printf("[signal] %s sent unknown event %q, ignoring", s.UserID, ev.Type)
	}
}

// forwardSignal routes candidate/offer/answer/call to their targetUid,
// wrapping the whole payload as envelope data.
func (g *Gateway) forwardSignal(s *Session, ev ClientEvent) {
	target, err := ev.Target()
	if err != nil {
		log.Printf("[signal] %s %s rejected: %v", s.UserID, ev.Type, err)
		s.Push(encode(WrapError(ev.Type, "targetUid required", http.StatusBadRequest)))
		return
	}

	env := WrapData(ev.Type, signalLabels[ev.Type], json.RawMessage(ev.Data))
	if !g.router.RouteToUser(target, env) && g.notifyOffline {
		s.Push(encode(WrapError(EventTargetOffline, target+" is offline", http.StatusNotFound)))
	}
}

// replyRoomUserList answers the requesting connection directly with the
// current member snapshot; this is never a broadcast.
func (g *Gateway) replyRoomUserList(ctx context.Context, s *Session, ev ClientEvent) {
	roomID, err := ev.Room()
	if err != nil {
		s.Push(encode(WrapError(EventRoomUserList, "roomId required", http.StatusBadRequest)))
		return
	}

	members, err := g.store.ListMembers(ctx, roomID)
	if err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] roomUserList failed for %s: %v", roomID, err)
		s.Push(encode(WrapError(EventRoomUserList, "room lookup failed", http.StatusServiceUnavailable)))
		return
	}
	s.Push(encode(WrapData(EventRoomUserList, "", members)))
}

// relayRoomMessage forwards a free-form message payload as-is to every local
// member of the sender's room.
func (g *Gateway) relayRoomMessage(ctx context.Context, s *Session, ev ClientEvent) {
	if s.RoomID == "" {
		s.Push(encode(WrapError(EventMessage, "not in a room", http.StatusBadRequest)))
		return
	}
	payload := []byte(ev.Data)
	if len(payload) == 0 {
		payload = []byte("null")
	}
	if err := g.router.RelayToRoom(ctx, s.RoomID, payload); err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] message relay failed for %s in %s: %v", s.UserID, s.RoomID, err)
	}
}

// teardown runs the ESTABLISHED -> CLOSED transition. The leave broadcast is
// only sent when this session was still the registered one, so a reconnect
// that superseded us does not get its fresh membership torn down.
func (g *Gateway) teardown(ctx context.Context, s *Session) {
	s.finish()
	current := g.reg.Unregister(s.UserID, s)
	decConnections()
	log.Printf("[signal] %s offline (session %s, room %q)", s.UserID, s.ID, s.RoomID)

	if !current || s.RoomID == "" {
		return
	}
	if err := g.store.Leave(ctx, s.RoomID, s.UserID); err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] leave store failed for %s in %s: %v", s.UserID, s.RoomID, err)
	}
	if err := g.router.RouteToRoom(ctx, s.RoomID, Wrap(EventLeave, s.UserID+"leave the room")); err != nil {
		storeErrorsTotal.Inc()
		log.Printf("[signal] leave broadcast failed for %s in %s: %v", s.UserID, s.RoomID, err)
	}
}
