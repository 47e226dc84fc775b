package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
)

// ProfileDependencies covers the per-user LeetCode operations.
type ProfileDependencies interface {
	Dashboard(ctx context.Context, username string) (types.Dashboard, bool, error)
	TakeSnapshot(ctx context.Context, username string) (types.SnapshotResult, error)
	History(ctx context.Context, username string, days int) (types.History, error)
	Insights(ctx context.Context, username string, days int) (types.Insights, bool, error)
	EnqueueSnapshotBatch(ctx context.Context) (types.BatchResult, error)
}

// ProfileHandler serves dashboard, snapshot, history and insights requests.
type ProfileHandler struct {
	deps   ProfileDependencies
	logger logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: log}
}

// HandleDashboard handles GET /api/leetcode/dashboard/{username}.
func (h *ProfileHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	data, cached, err := h.deps.Dashboard(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeCached(w, data, cached)
}

// HandleSnapshot handles POST /api/leetcode/snapshot/{username}.
func (h *ProfileHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.snapshot"
	res, err := h.deps.TakeSnapshot(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, res)
}

// HandleHistory handles GET /api/leetcode/history/{username}?days=N.
func (h *ProfileHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	res, err := h.deps.History(r.Context(), r.PathValue("username"), queryInt(r, "days"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, res)
}

// HandleInsights handles GET /api/leetcode/insights/{username}?days=N.
func (h *ProfileHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.insights"
	data, cached, err := h.deps.Insights(r.Context(), r.PathValue("username"), queryInt(r, "days"))
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeCached(w, data, cached)
}

// HandleBatch handles POST /api/snapshots/run. Jobs run asynchronously, so a
// successful request answers 202.
func (h *ProfileHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.snapshot_batch"
	res, err := h.deps.EnqueueSnapshotBatch(r.Context())
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusAccepted, res)
}

// queryInt reads an integer query parameter. Missing or malformed values
// read as zero, which the service treats as "use the default".
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
