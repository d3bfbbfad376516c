package router

import (
	"net/http"
	"strings"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/api/endpoints"
)

func RoomRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		paths := endpoints.RoomPaths{
			RoomsPrefix: strings.TrimRight(prefix, "/") + "/rooms/",
		}
		roomEndpoints := endpoints.NewRoomEndpoints(s.Store(), paths)

		mux.HandleFunc(paths.RoomsPrefix, s.MakeHTTPHandleFunc(roomEndpoints.RoomMembers))
	}
}
