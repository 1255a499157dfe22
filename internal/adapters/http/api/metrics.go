package api

import (
	"context"
	"net/http"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/internal/domain/types"
)

// MetricsDependencies defines the interface for filtered metric queries.
type MetricsDependencies interface {
	FilteredMetrics(ctx context.Context, c analytics.Criteria) ([]analytics.CategoryMetric, error)
	Aggregates(filtered []analytics.CategoryMetric) analytics.Totals
}

// MetricsHandler handles filtered metric requests.
type MetricsHandler struct {
	deps MetricsDependencies
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(deps MetricsDependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

// HandleGetMetrics handles GET /api/metrics?engagement=&impressions= requests.
func (h *MetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_metrics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := parseCriteria(r)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	items, err := h.deps.FilteredMetrics(r.Context(), c)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.MetricsView{
		Filters: c,
		Items:   items,
		Totals:  h.deps.Aggregates(items),
	})
}
