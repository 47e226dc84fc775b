package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/logger"
)

// TierFunc classifies a total solved count.
type TierFunc func(total int) (types.TierInfo, error)

// TierHandler handles tier classification requests.
type TierHandler struct {
	classify TierFunc
	logger   logger.Logger
}

// NewTierHandler creates a new tier handler.
func NewTierHandler(classify TierFunc, log logger.Logger) *TierHandler {
	return &TierHandler{classify: classify, logger: log}
}

// HandleGetTier handles GET /api/tier/{total}.
func (h *TierHandler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tier"
	raw := r.PathValue("total")
	total, err := strconv.Atoi(raw)
	if err != nil {
		writeError(r.Context(), h.logger, w, WrapKind(op, ErrBadRequest, fmt.Errorf("total must be an integer, got %q", raw)))
		return
	}
	info, err := h.classify(total)
	if err != nil {
		writeError(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeOK(w, http.StatusOK, info)
}
