package handlers

import (
	"net/http"

	"fleet-platform/internal/logx"
)

// SetupHandler serves /api/setup.
type SetupHandler struct {
	logger logx.Logger
	uc     setupUsecase
}

// NewSetupHandler wires a setupUsecase into HTTP handlers.
func NewSetupHandler(logger logx.Logger, uc setupUsecase) *SetupHandler {
	return &SetupHandler{logger: logger, uc: uc}
}

// Status handles GET /api/setup.
func (h *SetupHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.uc.Status(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, st)
}

// Apply handles POST /api/setup.
func (h *SetupHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	st, err := h.uc.Apply(r.Context(), actor)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"success": true, "status": st})
}

// DashboardHandler serves /api/dashboard.
type DashboardHandler struct {
	logger logx.Logger
	uc     dashboardUsecase
}

// NewDashboardHandler wires a dashboardUsecase into HTTP handlers.
func NewDashboardHandler(logger logx.Logger, uc dashboardUsecase) *DashboardHandler {
	return &DashboardHandler{logger: logger, uc: uc}
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	v, err := h.uc.Build(r.Context(), actor)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, v)
}
