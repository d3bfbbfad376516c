package signaling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meeting-app-backend/internal/membership"
	"meeting-app-backend/internal/model"
	"meeting-app-backend/internal/registry"

	"github.com/gorilla/websocket"
)

type wireEnvelope struct {
	Type   string          `json:"type"`
	Msg    string          `json:"msg"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, notifyOffline bool) (*membership.MemoryStore, *httptest.Server) {
	t.Helper()
	reg := registry.New()
	store := membership.NewMemoryStore()
	gw := NewGateway(NewRouter(reg, store), reg, store, notifyOffline)
	srv := httptest.NewServer(http.HandlerFunc(gw.ServeWS))
	t.Cleanup(srv.Close)
	return store, srv
}

func dialWS(t *testing.T, srv *httptest.Server, userID, roomID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?userId=" + userID
	if roomID != "" {
		u += "&roomId=" + roomID
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", userID, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return raw
}

// readUntil drains frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) wireEnvelope {
	t.Helper()
	for i := 0; i < 10; i++ {
		var env wireEnvelope
		if err := json.Unmarshal(readFrame(t, conn), &env); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if env.Type == typ {
			return env
		}
	}
	t.Fatalf("no %s frame arrived", typ)
	return wireEnvelope{}
}

func sendEvent(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("send event: %v", err)
	}
}

func TestHandshakeRequiresUserID(t *testing.T) {
	_, srv := newTestServer(t, false)

	res, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("handshake without userId: status %d, want 400", res.StatusCode)
	}
}

func TestJoinBroadcastOnConnect(t *testing.T) {
	store, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "r1")
	env := readUntil(t, u1, EventJoin)
	if env.Msg != "u1join the room" || env.Status != 200 {
		t.Fatalf("unexpected join envelope: %+v", env)
	}

	members, err := store.ListMembers(context.Background(), "r1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if members["u1"] != model.MemberDetail("u1", "r1") {
		t.Fatalf("store entry missing or wrong: %+v", members)
	}
}

func TestOfferForwarding(t *testing.T) {
	_, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "r1")
	readUntil(t, u1, EventJoin) // own join
	u2 := dialWS(t, srv, "u2", "r1")
	readUntil(t, u2, EventJoin) // u2's own join

	sendEvent(t, u1, `{"type":"offer","data":{"targetUid":"u2","sdp":"X"}}`)

	env := readUntil(t, u2, EventOffer)
	if env.Msg != "rtc offer" || env.Status != 200 {
		t.Fatalf("unexpected offer envelope: %+v", env)
	}
	var payload struct {
		TargetUID string `json:"targetUid"`
		SDP       string `json:"sdp"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode offer data: %v", err)
	}
	if payload.TargetUID != "u2" || payload.SDP != "X" {
		t.Fatalf("offer payload not forwarded whole: %+v", payload)
	}
}

func TestLeaveBroadcastOnDisconnect(t *testing.T) {
	store, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "r1")
	readUntil(t, u1, EventJoin)
	u2 := dialWS(t, srv, "u2", "r1")
	readUntil(t, u2, EventJoin)

	u1.Close()

	env := readUntil(t, u2, EventLeave)
	if env.Msg != "u1leave the room" || env.Status != 200 {
		t.Fatalf("unexpected leave envelope: %+v", env)
	}

	// The leave broadcast happens after the store delete, so by now u1 is gone.
	members, err := store.ListMembers(context.Background(), "r1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if _, ok := members["u1"]; ok {
		t.Fatal("u1 still listed after disconnect")
	}
}

func TestOfflineTargetIsSilentlySkipped(t *testing.T) {
	_, srv := newTestServer(t, false)

	u3 := dialWS(t, srv, "u3", "")
	sendEvent(t, u3, `{"type":"candidate","data":{"targetUid":"ghost"}}`)

	// The connection must survive and keep serving; the next request-reply
	// proves the miss neither errored nor killed the session.
	sendEvent(t, u3, `{"type":"roomUserList","data":{"roomId":"empty"}}`)
	env := readUntil(t, u3, EventRoomUserList)
	if env.Status != 200 {
		t.Fatalf("connection degraded after offline target: %+v", env)
	}
}

func TestOfflineTargetNotifiesSenderWhenHardened(t *testing.T) {
	_, srv := newTestServer(t, true)

	u3 := dialWS(t, srv, "u3", "")
	sendEvent(t, u3, `{"type":"candidate","data":{"targetUid":"ghost"}}`)

	env := readUntil(t, u3, EventTargetOffline)
	if env.Status != http.StatusNotFound || env.Msg != "ghost is offline" {
		t.Fatalf("unexpected targetOffline envelope: %+v", env)
	}
}

func TestSignalWithoutTargetRejected(t *testing.T) {
	_, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "")
	sendEvent(t, u1, `{"type":"offer","data":{"sdp":"X"}}`)

	env := readUntil(t, u1, EventOffer)
	if env.Status != http.StatusBadRequest || env.Msg != "targetUid required" {
		t.Fatalf("unexpected rejection envelope: %+v", env)
	}
}

func TestMalformedFrameRejected(t *testing.T) {
	_, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "")
	sendEvent(t, u1, `this is not json`)

	env := readUntil(t, u1, EventError)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("unexpected malformed-frame envelope: %+v", env)
	}
}

func TestRoomUserListSnapshot(t *testing.T) {
	_, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "r1")
	readUntil(t, u1, EventJoin)
	u2 := dialWS(t, srv, "u2", "r1")
	readUntil(t, u2, EventJoin)

	sendEvent(t, u1, `{"type":"roomUserList","data":{"roomId":"r1"}}`)

	env := readUntil(t, u1, EventRoomUserList)
	var members map[string]model.RoomMember
	if err := json.Unmarshal(env.Data, &members); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("snapshot has %d members, want 2", len(members))
	}
	if members["u2"].Nickname != "u2" {
		t.Fatalf("unexpected member detail: %+v", members["u2"])
	}
}

func TestRoomMessageRelayedVerbatim(t *testing.T) {
	_, srv := newTestServer(t, false)

	u1 := dialWS(t, srv, "u1", "r1")
	readUntil(t, u1, EventJoin)
	u2 := dialWS(t, srv, "u2", "r1")
	readUntil(t, u2, EventJoin)

	sendEvent(t, u1, `{"type":"message","data":{"text":"hi room"}}`)

	raw := readFrame(t, u2)
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode relayed payload: %v", err)
	}
	if payload.Text != "hi room" {
		t.Fatalf("relayed payload mangled: %s", raw)
	}
}

func TestReconnectSupersedesPreviousSession(t *testing.T) {
	store, srv := newTestServer(t, false)

	first := dialWS(t, srv, "u1", "r1")
	readUntil(t, first, EventJoin)

	second := dialWS(t, srv, "u1", "r1")
	readUntil(t, second, EventJoin)

	// The superseded connection is closed with a going-away frame.
	first.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, _, err := first.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Fatalf("expected going-away close, got %v", err)
			}
			break
		}
	}

	// The stale session's teardown must not tear down the new membership.
	deadline := time.Now().Add(2 * time.Second)
	for {
		members, err := store.ListMembers(context.Background(), "r1")
		if err != nil {
			t.Fatalf("list members: %v", err)
		}
		if _, ok := members["u1"]; ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("u1 membership lost after reconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The replacement session still receives point-to-point traffic.
	sendEvent(t, second, `{"type":"call","data":{"targetUid":"u1"}}`)
	env := readUntil(t, second, EventCall)
	if env.Msg != "remote call" {
		t.Fatalf("unexpected call envelope: %+v", env)
	}
}
