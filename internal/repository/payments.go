package repository

import (
	"context"
	"fmt"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

const paymentColumns = `id, user_id, trip_id, provider, amount, currency, status, reference, purpose,
    description, metadata, paid_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.TripID, &p.Provider, &p.Amount, &p.Currency, &p.Status,
		&p.Reference, &p.Purpose, &p.Description, &p.Metadata, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// InsertPayment - insert a pending payment and fill its ID.
func (r *queries) InsertPayment(ctx context.Context, p *domain.Payment) error {
	if !domain.ValidID(p.UserID) {
		return fmt.Errorf("payment user %s: %w", p.UserID, apperr.ErrNotFound)
	}
	if p.TripID != nil && !domain.ValidID(*p.TripID) {
		return apperr.WithReason(apperr.ErrNotFound, "Trip not found")
	}
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO payments (user_id, trip_id, provider, amount, currency, status, reference, purpose, description, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `, p.UserID, p.TripID, string(p.Provider), p.Amount, p.Currency, string(p.Status), p.Reference,
		string(p.Purpose), p.Description, p.Metadata).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetPaymentByReference - returns payment by provider reference.
func (r *queries) GetPaymentByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider = $1 AND reference = $2`, string(provider), reference))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment %s/%s: %w", provider, reference, err)
	}
	return &p, nil
}

// UpdatePaymentResult writes the verified outcome of a payment. Writing the same outcome twice
// leaves the row unchanged. It reports whether a row matched.
func (r *queries) UpdatePaymentResult(ctx context.Context, provider domain.Provider, reference string,
	status domain.PaymentStatus, amount float64, paidAt *time.Time) (bool, error) {
	ct, err := r.q.Exec(ctx, `
        UPDATE payments
        SET status = $3,
            amount = CASE WHEN $4::numeric > 0 THEN $4::numeric ELSE amount END,
            paid_at = COALESCE(paid_at, $5),
            updated_at = now()
        WHERE provider = $1 AND reference = $2
    `, string(provider), reference, string(status), amount, paidAt)
	if err != nil {
		return false, fmt.Errorf("update payment %s/%s: %w", provider, reference, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ListPayments returns the payments of a user (all users when userID is empty), newest first.
func (r *queries) ListPayments(ctx context.Context, userID string, limit int) ([]domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments`
	args := make([]any, 0, 2)
	if userID != "" {
		args = append(args, userID)
		q += ` WHERE user_id = $1`
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumCompletedPayments totals completed payments per currency, for one user or for everyone.
func (r *queries) SumCompletedPayments(ctx context.Context, userID string) (map[string]float64, error) {
	q := `SELECT currency, COALESCE(sum(amount), 0) FROM payments WHERE status = 'completed'`
	args := make([]any, 0, 1)
	if userID != "" {
		args = append(args, userID)
		q += ` AND user_id = $1`
	}
	q += ` GROUP BY currency`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			cur   string
			total float64
		)
		if err := rows.Scan(&cur, &total); err != nil {
			return nil, err
		}
		out[cur] = total
	}
	return out, rows.Err()
}
