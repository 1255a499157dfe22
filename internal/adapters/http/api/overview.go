package api

import (
	"context"
	"net/http"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/types"
)

// OverviewDependencies defines the interface for the dashboard page model.
type OverviewDependencies interface {
	Overview(ctx context.Context, c analytics.Criteria) (types.Overview, error)
}

// OverviewHandler handles overview requests.
type OverviewHandler struct {
	deps OverviewDependencies
}

// NewOverviewHandler creates a new overview handler.
func NewOverviewHandler(deps OverviewDependencies) *OverviewHandler {
	return &OverviewHandler{deps: deps}
}

// HandleGetOverview handles GET /api/overview?engagement=&impressions= requests.
func (h *OverviewHandler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := parseCriteria(r)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	ov, err := h.deps.Overview(r.Context(), c)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}
