// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MetricsDependencies
	TopDependencies
	GateDependencies
	OverviewDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	metricsHandler  *MetricsHandler
	topHandler      *TopHandler
	gateHandler     *GateHandler
	overviewHandler *OverviewHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		metricsHandler:  NewMetricsHandler(deps),
		topHandler:      NewTopHandler(deps),
		gateHandler:     NewGateHandler(deps),
		overviewHandler: NewOverviewHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/metrics", MetricsMiddleware(s.metricsHandler.HandleGetMetrics, "metrics"))
	mux.HandleFunc("/api/top", MetricsMiddleware(s.topHandler.HandleGetTop, "top"))
	mux.HandleFunc("/api/gate", MetricsMiddleware(s.gateHandler.HandleGetGate, "gate"))
	mux.HandleFunc("/api/overview", MetricsMiddleware(s.overviewHandler.HandleGetOverview, "overview"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before the header goes out so an unencodable value
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		if _, isErr := v.(errorResponse); isErr {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind("api.encode", ErrInternal, err))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to 400 for bad input and 500 otherwise, and logs it
// with the request id.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	fields := []logger.Field{
		logger.String("op", op),
		logger.String("requestId", RequestID(ctx)),
		logger.Error(err),
	}
	if isBadRequest(err) {
		logger.Get().Warn(ctx, "rejected request", fields...)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	logger.Get().Error(ctx, "request failed", fields...)
	writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
}

func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, analytics.ErrUnknownTier) ||
		errors.Is(err, analytics.ErrUnknownRankKey)
}

// parseCriteria reads the engagement and impressions query parameters.
// Missing parameters select every tier.
func parseCriteria(r *http.Request) (analytics.Criteria, error) {
	q := r.URL.Query()
	engagement, err := analytics.ParseTier(q.Get("engagement"))
	if err != nil {
		return analytics.Criteria{}, err
	}
	impressions, err := analytics.ParseTier(q.Get("impressions"))
	if err != nil {
		return analytics.Criteria{}, err
	}
	return analytics.Criteria{Engagement: engagement, Impressions: impressions}, nil
}
