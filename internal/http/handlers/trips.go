package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/service/trip"
)

// TripHandler serves /api/trips.
type TripHandler struct {
	logger logx.Logger
	uc     tripUsecase
}

// NewTripHandler wires a tripUsecase into HTTP handlers.
func NewTripHandler(logger logx.Logger, uc tripUsecase) *TripHandler {
	return &TripHandler{logger: logger, uc: uc}
}

// List handles GET /api/trips. Drivers always get their own trips, whatever the query says.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	q := r.URL.Query()
	list, err := h.uc.List(r.Context(), actor, trip.ListRequest{
		Status:  domain.TripStatus(q.Get("status")),
		TruckID: q.Get("truck_id"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"trips": tripsToResponse(list)})
}

// Get handles GET /api/trips/{id}.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	t, err := h.uc.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"trip": tripToResponse(t)})
}

// Create handles POST /api/trips.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	if !actor.Role.CanManageTrips() {
		writeError(h.logger, w, r, http.StatusForbidden, "Insufficient permissions")
		return
	}
	var req createTripRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	t, err := h.uc.Create(r.Context(), actor, req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"trip": tripToResponse(t)})
}

// Update handles PUT /api/trips.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	if !actor.Role.CanManageTrips() && actor.Role != domain.RoleDriver {
		writeError(h.logger, w, r, http.StatusForbidden, "Insufficient permissions")
		return
	}
	var req updateTripRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	t, err := h.uc.UpdateStatus(r.Context(), actor, req.toModel())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"trip": tripToResponse(t)})
}
