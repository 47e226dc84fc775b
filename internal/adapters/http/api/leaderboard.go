package api

import (
	"context"
	"net/http"

	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) (types.Leaderboard, error)
	LeaderboardStats(ctx context.Context) (types.LeaderboardStats, error)
	Rank(ctx context.Context, username string) (types.RankInfo, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps   LeaderboardDependencies
	logger logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, log logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, logger: log}
}

// HandleGetLeaderboard handles GET /api/leaderboard?limit=N. The service
// clamps the limit; a missing or malformed one selects the default.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	board, err := h.deps.Leaderboard(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, board)
}

// HandleGetStats handles GET /api/leaderboard/stats.
func (h *LeaderboardHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard_stats"
	stats, err := h.deps.LeaderboardStats(r.Context())
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, stats)
}

// HandleGetRank handles GET /api/leaderboard/rank/{username}.
func (h *LeaderboardHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	info, err := h.deps.Rank(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, info)
}
