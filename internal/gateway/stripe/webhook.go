package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/payments"
)

// Event types handled by the webhooks.
const (
	EventPaymentSucceeded     = "payment_intent.succeeded"
	EventPaymentFailed        = "payment_intent.payment_failed"
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentOK     = "invoice.payment_succeeded"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

// SubscriptionChange is the subscription state carried by a webhook event.
type SubscriptionChange struct {
	SubscriptionID string
	CustomerID     string
	Status         string
	PriceID        string
	Metadata       map[string]string
	PeriodEnd      *time.Time
}

// Event is a verified webhook event.
type Event struct {
	ID           string
	Type         string
	Payment      *payments.Result
	Subscription *SubscriptionChange
}

// ParseEvent verifies the stripe-signature header against secret and decodes the payload
// objects this service reconciles.
func ParseEvent(payload []byte, signature, secret string) (Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, apperr.WithReason(apperr.ErrInvalid, "Invalid signature")
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripego.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return Event{}, apperr.WithReason(apperr.ErrInvalid, fmt.Sprintf("Invalid payment_intent: %v", err))
		}
		res := intentResult(&pi)
		if out.Type == EventPaymentFailed {
			res.Status = domain.PaymentFailed
		}
		out.Payment = &res
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripego.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return Event{}, apperr.WithReason(apperr.ErrInvalid, fmt.Sprintf("Invalid subscription: %v", err))
		}
		ch := &SubscriptionChange{
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
			Metadata:       sub.Metadata,
		}
		if sub.Customer != nil {
			ch.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			ch.PriceID = sub.Items.Data[0].Price.ID
		}
		ch.PeriodEnd = unixOrNil(sub.CurrentPeriodEnd)
		if out.Type == EventSubscriptionDeleted && ch.Status == "" {
			ch.Status = string(stripego.SubscriptionStatusCanceled)
		}
		out.Subscription = ch
	case EventInvoicePaymentOK, EventInvoicePaymentFailed:
		var inv stripego.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return Event{}, apperr.WithReason(apperr.ErrInvalid, fmt.Sprintf("Invalid invoice: %v", err))
		}
		if inv.Subscription == nil || inv.Subscription.ID == "" {
			return out, nil
		}
		status := string(stripego.SubscriptionStatusActive)
		if out.Type == EventInvoicePaymentFailed {
			status = string(stripego.SubscriptionStatusPastDue)
		}
		out.Subscription = &SubscriptionChange{SubscriptionID: inv.Subscription.ID, Status: status}
		if inv.Customer != nil {
			out.Subscription.CustomerID = inv.Customer.ID
		}
	}
	return out, nil
}
