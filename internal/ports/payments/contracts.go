package payments

import (
	"context"
	"time"

	"fleet-platform/internal/domain"
)

// CreateRequest is a payment initialization request. Amount is in major currency units.
type CreateRequest struct {
	Reference   string
	Amount      float64
	Currency    string
	Email       string
	Name        string
	Description string
	Metadata    map[string]any
}

// Initiation is the provider's answer to a CreateRequest. Redirect flows fill AuthorizationURL,
// Stripe fills ClientSecret.
type Initiation struct {
	Provider         domain.Provider
	Reference        string
	AuthorizationURL string
	ClientSecret     string
	Metadata         map[string]any
}

// Result is a verified payment outcome. Amount is in major currency units.
type Result struct {
	Provider  domain.Provider
	Reference string
	Status    domain.PaymentStatus
	Amount    float64
	Currency  string
	PaidAt    *time.Time
	Metadata  map[string]any
}

// Adapter wraps one payment processor.
type Adapter interface {
	Provider() domain.Provider
	CreatePayment(ctx context.Context, req CreateRequest) (Initiation, error)
	VerifyPayment(ctx context.Context, reference string) (Result, error)
}

// ToMinor converts a major-unit amount to the processor's smallest unit.
func ToMinor(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}

// FromMinor converts a smallest-unit amount to major units.
func FromMinor(minor int64) float64 {
	return float64(minor) / 100
}
