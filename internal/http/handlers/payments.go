package handlers

import (
	"context"
	"io"
	"net/http"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/service/payment"
)

const webhookBodyLimit = 64 << 10

// PaymentHandler serves payments, subscriptions and the Stripe webhooks.
type PaymentHandler struct {
	logger logx.Logger
	uc     paymentUsecase
}

// NewPaymentHandler wires a paymentUsecase into HTTP handlers.
func NewPaymentHandler(logger logx.Logger, uc paymentUsecase) *PaymentHandler {
	return &PaymentHandler{logger: logger, uc: uc}
}

// Create handles POST /api/payments.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req createPaymentRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	out, err := h.uc.Create(r.Context(), actor, payment.CreateRequest{
		Provider:    req.Provider,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		TripID:      req.TripID,
		Purpose:     domain.PaymentPurpose(req.Purpose),
		Email:       req.Email,
		Name:        req.Name,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, initiationToResponse(out))
}

// Verify handles GET /api/payments/verify?provider=&reference=.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	ref := q.Get("reference")
	if ref == "" {
		// Flutterwave redirects back with transaction_id.
		ref = q.Get("transaction_id")
	}
	res, err := h.uc.Verify(r.Context(), actor, q.Get("provider"), ref)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, resultToResponse(res))
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	list, err := h.uc.List(r.Context(), actor, limit)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	providers := make([]string, 0, len(h.uc.Providers()))
	for _, p := range h.uc.Providers() {
		providers = append(providers, string(p))
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{
		"payments":  paymentsToResponse(list),
		"providers": providers,
	})
}

// Subscribe handles POST /api/subscriptions.
func (h *PaymentHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(h.logger, w, r)
	if !ok {
		return
	}
	var req subscriptionRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	out, err := h.uc.CreateSubscription(r.Context(), actor, req.PriceID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, subscriptionToResponse(out))
}

// StripeWebhook handles POST /api/webhooks/stripe.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, h.uc.HandleStripeWebhook)
}

// StripeSubscriptionWebhook handles POST /api/webhooks/stripe-subscription.
func (h *PaymentHandler) StripeSubscriptionWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, h.uc.HandleStripeSubscriptionWebhook)
}

func (h *PaymentHandler) webhook(w http.ResponseWriter, r *http.Request,
	handle func(ctx context.Context, payload []byte, signature string) error) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookBodyLimit))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "Invalid body")
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "Missing stripe-signature header")
		return
	}
	if err := handle(r.Context(), payload, sig); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]bool{"received": true})
}
