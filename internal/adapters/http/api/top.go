package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/trendboard/internal/domain/analytics"
)

// TopDependencies defines the interface for ranking queries.
type TopDependencies interface {
	Top(ctx context.Context, c analytics.Criteria, key analytics.RankKey, n int) ([]analytics.RankedMetric, error)
	DefaultTopN() int
	MaxResults() int
}

// TopHandler handles ranking requests.
type TopHandler struct {
	deps TopDependencies
}

// NewTopHandler creates a new top handler.
func NewTopHandler(deps TopDependencies) *TopHandler {
	return &TopHandler{deps: deps}
}

// HandleGetTop handles GET /api/top?by=&n=&engagement=&impressions= requests.
func (h *TopHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	key, err := analytics.ParseRankKey(q.Get("by"))
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	n := min(h.deps.DefaultTopN(), h.deps.MaxResults())
	if raw := q.Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.deps.MaxResults() {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	c, err := parseCriteria(r)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	ranked, err := h.deps.Top(r.Context(), c, key, n)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}
