package api

import (
	"context"
	"net/http"

	"github.com/okian/trendboard/internal/domain/timegate"
)

// GateDependencies defines the interface for reading the time gate.
type GateDependencies interface {
	CurrentGate(ctx context.Context) timegate.Snapshot
}

// GateHandler handles gate requests.
type GateHandler struct {
	deps GateDependencies
}

// NewGateHandler creates a new gate handler.
func NewGateHandler(deps GateDependencies) *GateHandler {
	return &GateHandler{deps: deps}
}

// HandleGetGate handles GET /api/gate requests.
func (h *GateHandler) HandleGetGate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CurrentGate(r.Context()))
}
