package api

import (
	"net/http"

	"github.com/devakmmm/LeetInsight/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Banner is the plain-text body served at the root path.
const Banner = "LeetInsight API running"

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleBanner handles GET / requests.
func (h *HealthHandler) HandleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Banner))
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// MetricsHandler serves the Prometheus exposition of the service registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
