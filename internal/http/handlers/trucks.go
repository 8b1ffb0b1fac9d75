package handlers

import (
	"net/http"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/service/truck"
)

// TruckHandler serves /api/trucks.
type TruckHandler struct {
	logger logx.Logger
	uc     truckUsecase
}

// NewTruckHandler wires a truckUsecase into HTTP handlers.
func NewTruckHandler(logger logx.Logger, uc truckUsecase) *TruckHandler {
	return &TruckHandler{logger: logger, uc: uc}
}

// List handles GET /api/trucks.
func (h *TruckHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context(), domain.TruckStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	out := make([]truckDTO, 0, len(list))
	for _, t := range list {
		out = append(out, truckToResponse(t))
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"trucks": out})
}

// Locations handles GET /api/trucks/location: the latest position of every truck, or the
// history of truck_id.
func (h *TruckHandler) Locations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	list, err := h.uc.Locations(r.Context(), r.URL.Query().Get("truck_id"), limit)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"locations": locationsToResponse(list)})
}

// RecordLocation handles POST /api/trucks/location.
func (h *TruckHandler) RecordLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req recordLocationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeServiceError(h.logger, w, r, apperr.WithReason(apperr.ErrInvalid, "Missing required fields"))
		return
	}
	loc, err := h.uc.RecordLocation(r.Context(), actor, truck.LocationRequest{
		TruckID:    req.TruckID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Speed:      req.Speed,
		Heading:    req.Heading,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"location": locationToResponse(loc)})
}

// UpdateStatus handles PUT /api/trucks/location.
func (h *TruckHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req truckStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	t, err := h.uc.UpdateStatus(r.Context(), actor, truck.StatusRequest{
		TruckID: req.TruckID,
		Status:  domain.TruckStatus(req.Status),
		Reason:  req.Reason,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"truck": truckToResponse(t)})
}
