package endpoints

import (
	"net/http"
	"strings"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/membership"
)

type RoomPaths struct {
	RoomsPrefix string // e.g. /api/v1/rooms/
}

type RoomEndpoints struct {
	store membership.Store
	paths RoomPaths
}

func NewRoomEndpoints(store membership.Store, paths RoomPaths) *RoomEndpoints {
	return &RoomEndpoints{
		store: store,
		paths: paths,
	}
}

// RoomMembers serves GET <prefix>/{roomId}/members: the same snapshot the
// roomUserList event returns, for dashboards and debugging.
func (e *RoomEndpoints) RoomMembers(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return &api.HTTPError{
			StatusCode: http.StatusMethodNotAllowed,
			Message:    "method not allowed",
		}
	}

	rest := strings.TrimPrefix(r.URL.Path, e.paths.RoomsPrefix)
	roomID := strings.TrimSuffix(rest, "/members")
	if roomID == "" || roomID == rest || strings.Contains(roomID, "/") {
		return &api.HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "not found",
		}
	}

	members, err := e.store.ListMembers(r.Context(), roomID)
	if err != nil {
		return &api.HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "membership store unavailable",
			ErrorLog:   err,
		}
	}

	return api.WriteJSON(w, http.StatusOK, members)
}
