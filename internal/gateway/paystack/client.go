package paystack

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

// Client is the Paystack payment adapter. Amounts travel in kobo.
type Client struct {
	rest *restclient.Client
}

var _ payments.Adapter = (*Client)(nil)

// New creates a Paystack client. hc may be nil.
func New(baseURL, secretKey string, hc *http.Client, timeout time.Duration) *Client {
	return &Client{rest: restclient.New(baseURL, hc, http.Header{
		"Authorization": {"Bearer " + secretKey},
	}, timeout)}
}

// Provider returns domain.ProviderPaystack.
func (c *Client) Provider() domain.Provider { return domain.ProviderPaystack }

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email     string         `json:"email"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency,omitempty"`
	Reference string         `json:"reference"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string         `json:"status"`
	Reference string         `json:"reference"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	PaidAt    *time.Time     `json:"paid_at"`
	Metadata  map[string]any `json:"metadata"`
}

// CreatePayment initializes a transaction and returns the hosted checkout URL.
func (c *Client) CreatePayment(ctx context.Context, req payments.CreateRequest) (payments.Initiation, error) {
	kobo := payments.ToMinor(req.Amount)
	meta := make(map[string]any, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["amountInKobo"] = kobo
	if req.Description != "" {
		meta["description"] = req.Description
	}

	var out envelope[initializeData]
	err := c.rest.Do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:     req.Email,
		Amount:    kobo,
		Currency:  strings.ToUpper(req.Currency),
		Reference: req.Reference,
		Metadata:  meta,
	}, &out)
	if err != nil {
		return payments.Initiation{}, providerError(err)
	}
	if !out.Status {
		return payments.Initiation{}, apperr.WithReason(apperr.ErrProvider, out.Message)
	}

	ref := out.Data.Reference
	if ref == "" {
		ref = req.Reference
	}
	return payments.Initiation{
		Provider:         domain.ProviderPaystack,
		Reference:        ref,
		AuthorizationURL: out.Data.AuthorizationURL,
		Metadata:         meta,
	}, nil
}

// VerifyPayment reads the transaction back and converts kobo to naira.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (payments.Result, error) {
	var out envelope[verifyData]
	err := c.rest.Do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out)
	if err != nil {
		return payments.Result{}, providerError(err)
	}
	if !out.Status {
		return payments.Result{}, apperr.WithReason(apperr.ErrProvider, out.Message)
	}

	ref := out.Data.Reference
	if ref == "" {
		ref = reference
	}
	return payments.Result{
		Provider:  domain.ProviderPaystack,
		Reference: ref,
		Status:    mapStatus(out.Data.Status),
		Amount:    payments.FromMinor(out.Data.Amount),
		Currency:  out.Data.Currency,
		PaidAt:    out.Data.PaidAt,
		Metadata:  out.Data.Metadata,
	}, nil
}

func mapStatus(s string) domain.PaymentStatus {
	switch s {
	case "success":
		return domain.PaymentCompleted
	case "failed", "abandoned", "reversed":
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}

func providerError(err error) error {
	return fmt.Errorf("paystack: %w", apperr.WithReason(apperr.ErrProvider, restclient.UpstreamMessage(err)))
}
