// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/devakmmm/LeetInsight/internal/app"
	"github.com/devakmmm/LeetInsight/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ProfileDependencies
	LeaderboardDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	profileHandler     *ProfileHandler
	leaderboardHandler *LeaderboardHandler
	tierHandler        *TierHandler
	logger             logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request and 5xx logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.profileHandler = NewProfileHandler(deps, s.logger)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.logger)
	s.tierHandler = NewTierHandler(service.Tier, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestID(MetricsMiddleware(h, endpoint)))
	}

	mux.HandleFunc("GET /{$}", s.healthHandler.HandleBanner)
	route("GET /health", "health", s.healthHandler.HandleHealth)
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /api/leetcode/dashboard/{username}", "dashboard", s.profileHandler.HandleDashboard)
	route("POST /api/leetcode/snapshot/{username}", "snapshot", s.profileHandler.HandleSnapshot)
	route("GET /api/leetcode/history/{username}", "history", s.profileHandler.HandleHistory)
	route("GET /api/leetcode/insights/{username}", "insights", s.profileHandler.HandleInsights)
	route("POST /api/snapshots/run", "snapshot_batch", s.profileHandler.HandleBatch)

	route("GET /api/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	route("GET /api/leaderboard/stats", "leaderboard_stats", s.leaderboardHandler.HandleGetStats)
	route("GET /api/leaderboard/rank/{username}", "rank", s.leaderboardHandler.HandleGetRank)
	route("GET /api/tier/{total}", "tier", s.tierHandler.HandleGetTier)
}

// okResponse is the success envelope. Cached is only set by cached endpoints.
type okResponse struct {
	OK     bool  `json:"ok"`
	Data   any   `json:"data"`
	Cached *bool `json:"cached,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, okResponse{OK: true, Data: data})
}

func writeCached(w http.ResponseWriter, data any, cached bool) {
	writeJSON(w, http.StatusOK, okResponse{OK: true, Data: data, Cached: &cached})
}

// writeError renders err and logs server-side failures.
func writeError(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	status, code, msg := statusOf(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error(ctx, "request failed", logger.String("request_id", RequestIDFrom(ctx)), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{OK: false, Error: msg, Code: code})
}
