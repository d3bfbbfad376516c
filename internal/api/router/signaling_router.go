package router

import (
	"net/http"

	"meeting-app-backend/internal/api"
)

// SignalingRoutes registers the websocket endpoint straight on the mux: the
// connection outlives the HTTP request, so it must not occupy a request
// queue worker. The original client dials ws://host:port/?userId=..&roomId=..
// so the route is mounted at the root alongside a named alias.
func SignalingRoutes() api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		mux.HandleFunc("/{$}", s.Gateway().ServeWS)
		mux.HandleFunc("/ws", s.Gateway().ServeWS)
	}
}
