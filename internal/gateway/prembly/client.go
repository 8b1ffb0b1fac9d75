package prembly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/restclient"
)

var paths = map[domain.VerificationType]string{
	domain.VerificationBVN:            "/bvn",
	domain.VerificationNIN:            "/nin",
	domain.VerificationDriversLicense: "/drivers_license",
	domain.VerificationVehicle:        "/vehicle",
	domain.VerificationTIN:            "/tin",
}

// Result is the provider's verdict on one document.
type Result struct {
	Status       bool            `json:"status"`
	Detail       string          `json:"detail"`
	ResponseCode string          `json:"response_code"`
	Data         json.RawMessage `json:"data"`
}

// Client calls the identity verification API.
type Client struct {
	rest *restclient.Client
}

// New creates a client authenticated with the x-api-key and app-id headers.
func New(baseURL, apiKey, appID string, hc *http.Client, timeout time.Duration) *Client {
	return &Client{rest: restclient.New(baseURL, hc, http.Header{
		"x-api-key": {apiKey},
		"app-id":    {appID},
	}, timeout)}
}

// Verify submits data to the endpoint of typ. A negative verdict is returned as a Result with
// Status false; only transport and HTTP failures are errors.
func (c *Client) Verify(ctx context.Context, typ domain.VerificationType, data map[string]string) (Result, error) {
	path, ok := paths[typ]
	if !ok {
		return Result{}, apperr.WithReason(apperr.ErrInvalid, "Unsupported verification type")
	}
	var out Result
	if err := c.rest.Do(ctx, http.MethodPost, path, data, &out); err != nil {
		return Result{}, fmt.Errorf("prembly: %w", apperr.WithReason(apperr.ErrProvider, restclient.UpstreamMessage(err)))
	}
	return out, nil
}
