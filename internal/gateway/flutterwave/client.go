package flutterwave

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/restclient"
	"fleet-platform/internal/ports/payments"
)

// Client is the Flutterwave Standard adapter. Flutterwave takes amounts in major units.
type Client struct {
	rest        *restclient.Client
	redirectURL string
}

var _ payments.Adapter = (*Client)(nil)

// New creates a Flutterwave client. baseURL includes the /v3 prefix.
func New(baseURL, secretKey, redirectURL string, hc *http.Client, timeout time.Duration) *Client {
	return &Client{
		rest: restclient.New(baseURL, hc, http.Header{
			"Authorization": {"Bearer " + secretKey},
		}, timeout),
		redirectURL: redirectURL,
	}
}

// Provider returns domain.ProviderFlutterwave.
func (c *Client) Provider() domain.Provider { return domain.ProviderFlutterwave }

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type customizations struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type paymentRequest struct {
	TxRef          string         `json:"tx_ref"`
	Amount         float64        `json:"amount"`
	Currency       string         `json:"currency"`
	RedirectURL    string         `json:"redirect_url"`
	Customer       customer       `json:"customer"`
	Meta           map[string]any `json:"meta,omitempty"`
	Customizations customizations `json:"customizations"`
}

type paymentData struct {
	Link string `json:"link"`
}

type transaction struct {
	ID        int64          `json:"id"`
	TxRef     string         `json:"tx_ref"`
	Status    string         `json:"status"`
	Amount    float64        `json:"amount"`
	Currency  string         `json:"currency"`
	CreatedAt *time.Time     `json:"created_at"`
	Meta      map[string]any `json:"meta"`
}

// CreatePayment creates a hosted payment link.
func (c *Client) CreatePayment(ctx context.Context, req payments.CreateRequest) (payments.Initiation, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "NGN"
	}
	var out envelope[paymentData]
	err := c.rest.Do(ctx, http.MethodPost, "/payments", paymentRequest{
		TxRef:          req.Reference,
		Amount:         req.Amount,
		Currency:       currency,
		RedirectURL:    c.redirectURL,
		Customer:       customer{Email: req.Email, Name: req.Name},
		Meta:           req.Metadata,
		Customizations: customizations{Title: "Fleet payment", Description: req.Description},
	}, &out)
	if err != nil {
		return payments.Initiation{}, providerError(err)
	}
	if out.Status != "success" || out.Data.Link == "" {
		return payments.Initiation{}, apperr.WithReason(apperr.ErrProvider, out.Message)
	}
	return payments.Initiation{
		Provider:         domain.ProviderFlutterwave,
		Reference:        req.Reference,
		AuthorizationURL: out.Data.Link,
		Metadata:         req.Metadata,
	}, nil
}

// VerifyPayment verifies a transaction. A numeric reference is the Flutterwave transaction id
// returned on the redirect; anything else is treated as our tx_ref.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (payments.Result, error) {
	path := "/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	if isTransactionID(reference) {
		path = "/transactions/" + reference + "/verify"
	}

	var out envelope[transaction]
	if err := c.rest.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return payments.Result{}, providerError(err)
	}
	if out.Status != "success" {
		return payments.Result{}, apperr.WithReason(apperr.ErrProvider, out.Message)
	}

	status := domain.PaymentPending
	var paidAt *time.Time
	switch out.Data.Status {
	case "successful":
		status = domain.PaymentCompleted
		paidAt = out.Data.CreatedAt
	case "failed", "cancelled":
		status = domain.PaymentFailed
	}

	return payments.Result{
		Provider:  domain.ProviderFlutterwave,
		Reference: out.Data.TxRef,
		Status:    status,
		Amount:    out.Data.Amount,
		Currency:  out.Data.Currency,
		PaidAt:    paidAt,
		Metadata:  out.Data.Meta,
	}, nil
}

func isTransactionID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func providerError(err error) error {
	return fmt.Errorf("flutterwave: %w", apperr.WithReason(apperr.ErrProvider, restclient.UpstreamMessage(err)))
}
