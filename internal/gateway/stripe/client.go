package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/payments"
)

// Client is the Stripe adapter: PaymentIntents for one-off charges and Subscriptions.
type Client struct {
	api *client.API
}

var _ payments.Adapter = (*Client)(nil)

// New creates a Stripe client. A non-empty baseURL overrides the API endpoint.
func New(secretKey, baseURL string, hc *http.Client) *Client {
	if baseURL == "" && hc == nil {
		return &Client{api: client.New(secretKey, nil)}
	}
	cfg := &stripego.BackendConfig{
		HTTPClient:        hc,
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelError},
	}
	if baseURL != "" {
		cfg.URL = stripego.String(strings.TrimRight(baseURL, "/"))
	}
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, cfg)
	api := &client.API{}
	api.Init(secretKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Client{api: api}
}

// Provider returns domain.ProviderStripe.
func (c *Client) Provider() domain.Provider { return domain.ProviderStripe }

// CreatePayment creates a PaymentIntent in the smallest currency unit. The intent id becomes
// the payment reference.
func (c *Client) CreatePayment(ctx context.Context, req payments.CreateRequest) (payments.Initiation, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(payments.ToMinor(req.Amount)),
		Currency: stripego.String(currency),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripego.String(req.Description)
	}
	if req.Email != "" {
		params.ReceiptEmail = stripego.String(req.Email)
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, fmt.Sprint(v))
	}
	if req.Reference != "" {
		params.AddMetadata("reference", req.Reference)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return payments.Initiation{}, providerError(err)
	}
	return payments.Initiation{
		Provider:     domain.ProviderStripe,
		Reference:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Metadata:     req.Metadata,
	}, nil
}

// VerifyPayment retrieves a PaymentIntent.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (payments.Result, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(reference, params)
	if err != nil {
		return payments.Result{}, providerError(err)
	}
	return intentResult(pi), nil
}

func intentResult(pi *stripego.PaymentIntent) payments.Result {
	res := payments.Result{
		Provider:  domain.ProviderStripe,
		Reference: pi.ID,
		Status:    intentStatus(pi.Status),
		Amount:    payments.FromMinor(pi.AmountReceived),
		Currency:  strings.ToUpper(string(pi.Currency)),
	}
	if res.Status == domain.PaymentCompleted {
		paid := time.Unix(pi.Created, 0).UTC()
		res.PaidAt = &paid
	} else if res.Amount == 0 {
		res.Amount = payments.FromMinor(pi.Amount)
	}
	if len(pi.Metadata) > 0 {
		res.Metadata = make(map[string]any, len(pi.Metadata))
		for k, v := range pi.Metadata {
			res.Metadata[k] = v
		}
	}
	return res
}

func intentStatus(s stripego.PaymentIntentStatus) domain.PaymentStatus {
	switch s {
	case stripego.PaymentIntentStatusSucceeded:
		return domain.PaymentCompleted
	case stripego.PaymentIntentStatusCanceled:
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}

// SubscriptionRequest starts a subscription for a customer email.
type SubscriptionRequest struct {
	Email    string
	PriceID  string
	Metadata map[string]string
}

// SubscriptionStart is a created, not yet paid subscription.
type SubscriptionStart struct {
	SubscriptionID   string
	CustomerID       string
	Status           string
	ClientSecret     string
	CurrentPeriodEnd *time.Time
}

// CreateSubscription creates a customer and an incomplete subscription whose first invoice
// is paid client side.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (SubscriptionStart, error) {
	cp := &stripego.CustomerParams{Email: stripego.String(req.Email)}
	cp.Context = ctx
	for k, v := range req.Metadata {
		cp.AddMetadata(k, v)
	}
	cust, err := c.api.Customers.New(cp)
	if err != nil {
		return SubscriptionStart{}, providerError(err)
	}

	sp := &stripego.SubscriptionParams{
		Customer:        stripego.String(cust.ID),
		Items:           []*stripego.SubscriptionItemsParams{{Price: stripego.String(req.PriceID)}},
		PaymentBehavior: stripego.String("default_incomplete"),
		PaymentSettings: &stripego.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripego.String("on_subscription"),
		},
	}
	sp.Context = ctx
	sp.AddExpand("latest_invoice.payment_intent")
	for k, v := range req.Metadata {
		sp.AddMetadata(k, v)
	}
	sub, err := c.api.Subscriptions.New(sp)
	if err != nil {
		return SubscriptionStart{}, providerError(err)
	}

	out := SubscriptionStart{
		SubscriptionID:   sub.ID,
		CustomerID:       cust.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: unixOrNil(sub.CurrentPeriodEnd),
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		out.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return out, nil
}

func unixOrNil(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func providerError(err error) error {
	msg := err.Error()
	var se *stripego.Error
	if errors.As(err, &se) && se.Msg != "" {
		msg = se.Msg
	}
	return fmt.Errorf("stripe: %w", apperr.WithReason(apperr.ErrProvider, msg))
}
