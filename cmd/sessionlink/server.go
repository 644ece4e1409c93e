package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/sessionlink/internal/connection"
	"github.com/rickgao/sessionlink/internal/router"
	"github.com/rickgao/sessionlink/internal/version"
)

// statusSource exposes the manager state served over HTTP.
type statusSource interface {
	Snapshot() connection.Snapshot
	DispatcherStats() router.DispatcherStats
}

// newHTTPHandler creates the HTTP handler for health checks, metrics and state.
func newHTTPHandler(src statusSource, gatherer prometheus.Gatherer, metricsPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()

		health := struct {
			Status    string `json:"status"`
			State     string `json:"state"`
			ClientID  string `json:"clientId,omitempty"`
			LastError string `json:"lastError,omitempty"`
		}{
			Status:    "healthy",
			State:     snap.State.String(),
			ClientID:  snap.ClientID,
			LastError: snap.LastError,
		}

		switch {
		case snap.State == connection.StateDisconnected:
			health.Status = "unhealthy"
		case !snap.State.Live():
			health.Status = "degraded"
		}

		status := http.StatusOK
		if health.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, health)
	})

	r.Get("/debug/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"connection": src.Snapshot(),
			"dispatcher": src.DispatcherStats(),
			"build":      version.Get(),
		})
	})

	r.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
