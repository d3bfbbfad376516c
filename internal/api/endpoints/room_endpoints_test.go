package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/membership"
	"meeting-app-backend/internal/model"
)

func newRoomEndpoints(t *testing.T) (*membership.MemoryStore, *RoomEndpoints) {
	t.Helper()
	store := membership.NewMemoryStore()
	return store, NewRoomEndpoints(store, RoomPaths{RoomsPrefix: "/api/v1/rooms/"})
}

func TestRoomMembersSnapshot(t *testing.T) {
	store, e := newRoomEndpoints(t)
	if err := store.Join(context.Background(), "r1", "u1", model.MemberDetail("u1", "r1")); err != nil {
		t.Fatalf("join: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/r1/members", nil)
	if err := e.RoomMembers(rec, req); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var members map[string]model.RoomMember
	if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if members["u1"].Nickname != "u1" {
		t.Fatalf("unexpected snapshot: %+v", members)
	}
}

func TestRoomMembersEmptyRoom(t *testing.T) {
	_, e := newRoomEndpoints(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/nobody-here/members", nil)
	if err := e.RoomMembers(rec, req); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if body := rec.Body.String(); body != "{}\n" {
		t.Fatalf("empty room should serialize as {}, got %q", body)
	}
}

func TestRoomMembersRejectsBadPaths(t *testing.T) {
	_, e := newRoomEndpoints(t)

	for _, path := range []string{
		"/api/v1/rooms/r1",          // missing /members suffix
		"/api/v1/rooms//members",    // empty room id
		"/api/v1/rooms/a/b/members", // nested path
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		err := e.RoomMembers(httptest.NewRecorder(), req)
		var httpErr *api.HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
			t.Fatalf("path %q: expected 404 HTTPError, got %v", path, err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/r1/members", nil)
	err := e.RoomMembers(httptest.NewRecorder(), req)
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 HTTPError, got %v", err)
	}
}

func TestHealthReportsStoreState(t *testing.T) {
	store := membership.NewMemoryStore()
	e := NewHealthEndpoints(store)

	rec := httptest.NewRecorder()
	if err := e.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
