package repository

import (
	"context"
	"fmt"
	"time"

	"fleet-platform/internal/domain"
)

// UpsertSubscription stores a subscription keyed by its Stripe id.
func (r *queries) UpsertSubscription(ctx context.Context, s *domain.Subscription) error {
	err := r.q.QueryRow(ctx, `
        INSERT INTO subscriptions (user_id, stripe_subscription_id, stripe_customer_id, price_id, status, current_period_end)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (stripe_subscription_id) DO UPDATE
        SET status = EXCLUDED.status,
            current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
            updated_at = now()
        RETURNING id, created_at, updated_at
    `, s.UserID, s.StripeSubscriptionID, s.StripeCustomerID, s.PriceID, s.Status, s.CurrentPeriodEnd,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription %s: %w", s.StripeSubscriptionID, err)
	}
	return nil
}

// UpdateSubscriptionStatus updates a known subscription; it reports whether a row matched.
func (r *queries) UpdateSubscriptionStatus(ctx context.Context, stripeID, status string, periodEnd *time.Time) (bool, error) {
	ct, err := r.q.Exec(ctx, `
        UPDATE subscriptions
        SET status = $2, current_period_end = COALESCE($3, current_period_end), updated_at = now()
        WHERE stripe_subscription_id = $1
    `, stripeID, status, periodEnd)
	if err != nil {
		return false, fmt.Errorf("update subscription %s: %w", stripeID, err)
	}
	return ct.RowsAffected() > 0, nil
}
