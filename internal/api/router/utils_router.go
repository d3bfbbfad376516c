package router

import (
	"net/http"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/api/endpoints"
)

func UtilsRoutes() api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		healthEndpoints := endpoints.NewHealthEndpoints(s.Store())
		mux.HandleFunc("/healthz", s.MakeHTTPHandleFunc(healthEndpoints.Health))
	}
}
