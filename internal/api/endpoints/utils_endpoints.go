package endpoints

import (
	"net/http"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/membership"
)

type HealthEndpoints struct {
	store membership.Store
}

func NewHealthEndpoints(store membership.Store) *HealthEndpoints {
	return &HealthEndpoints{store: store}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health reports process liveness and, when the backend supports pings,
// membership store reachability.
func (e *HealthEndpoints) Health(w http.ResponseWriter, r *http.Request) error {
	res := healthResponse{Status: "ok", Store: "ok"}

	if p, ok := e.store.(membership.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			res.Status = "degraded"
			res.Store = "unreachable"
			return api.WriteJSON(w, http.StatusServiceUnavailable, res)
		}
	}

	return api.WriteJSON(w, http.StatusOK, res)
}
