package domain

import "time"

type (
	// Provider identifies a payment processor.
	Provider string
	// PaymentStatus is the lifecycle status of a payment.
	PaymentStatus string
	// PaymentPurpose says what a payment is charged for.
	PaymentPurpose string
)

// Payment is a local record of a processor payment. (Provider, Reference) is unique and is the
// join key for webhook reconciliation.
type Payment struct {
	ID          string
	UserID      string
	TripID      *string
	Provider    Provider
	Amount      float64
	Currency    string
	Status      PaymentStatus
	Reference   string
	Purpose     PaymentPurpose
	Description string
	Metadata    map[string]any
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subscription mirrors a Stripe subscription of a profile.
type Subscription struct {
	ID                   string
	UserID               string
	StripeSubscriptionID string
	StripeCustomerID     string
	PriceID              string
	Status               string
	CurrentPeriodEnd     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
