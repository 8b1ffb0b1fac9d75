package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/service/notification"
)

// NotificationHandler serves /api/notifications.
type NotificationHandler struct {
	logger logx.Logger
	uc     notificationUsecase
}

// NewNotificationHandler wires a notificationUsecase into HTTP handlers.
func NewNotificationHandler(logger logx.Logger, uc notificationUsecase) *NotificationHandler {
	return &NotificationHandler{logger: logger, uc: uc}
}

// Send handles POST /api/notifications/send.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req sendNotificationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	sent, err := h.uc.Send(r.Context(), actor, notification.SendRequest{
		UserIDs: req.UserIDs,
		Role:    domain.Role(req.Role),
		Title:   req.Title,
		Message: req.Message,
		Type:    domain.NotificationType(req.Type),
		Data:    req.Data,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(sent),
	})
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	unread := r.URL.Query().Get("unread") == "true"
	list, err := h.uc.List(r.Context(), actor, unread, limit)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"notifications": notificationsToResponse(list)})
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.uc.MarkRead(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]bool{"success": true})
}
