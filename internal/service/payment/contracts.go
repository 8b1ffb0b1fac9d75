//go:generate mockgen -source=contracts.go -destination=payment_mocks_test.go -package=payment_test

package payment

import (
	"context"
	"time"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/stripe"
)

type repository interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	InsertPayment(ctx context.Context, p *domain.Payment) error
	GetPaymentByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Payment, error)
	UpdatePaymentResult(ctx context.Context, provider domain.Provider, reference string,
		status domain.PaymentStatus, amount float64, paidAt *time.Time) (bool, error)
	ListPayments(ctx context.Context, userID string, limit int) ([]domain.Payment, error)
	UpsertSubscription(ctx context.Context, s *domain.Subscription) error
	UpdateSubscriptionStatus(ctx context.Context, stripeID, status string, periodEnd *time.Time) (bool, error)
}

// SubscriptionStarter creates Stripe subscriptions.
type SubscriptionStarter interface {
	CreateSubscription(ctx context.Context, req stripe.SubscriptionRequest) (stripe.SubscriptionStart, error)
}

type observer interface {
	Inc(provider, status string)
}
