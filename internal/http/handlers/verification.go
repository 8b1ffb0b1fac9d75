package handlers

import (
	"net/http"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/service/verification"
)

// VerificationHandler serves /api/verification.
type VerificationHandler struct {
	logger logx.Logger
	uc     verificationUsecase
}

// NewVerificationHandler wires a verificationUsecase into HTTP handlers.
func NewVerificationHandler(logger logx.Logger, uc verificationUsecase) *VerificationHandler {
	return &VerificationHandler{logger: logger, uc: uc}
}

// Verify handles POST /api/verification/prembly. A document the provider rejects is a
// successful request with success=false.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req verifyRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	out, err := h.uc.VerifyIdentity(r.Context(), actor, verification.Request{
		Type:   domain.VerificationType(req.Type),
		Data:   req.Data,
		UserID: req.UserID,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, verifyResponse{
		Success:        out.Status == domain.VerificationVerified,
		VerificationID: out.VerificationID,
		Status:         string(out.Status),
		Message:        out.Detail,
		Data:           out.Data,
		ProfileUpdated: out.ProfileUpdated,
	})
}

// History handles GET /api/verification.
func (h *VerificationHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	list, err := h.uc.History(r.Context(), actor, r.URL.Query().Get("user_id"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"verifications": verificationsToResponse(list)})
}
