package repository

import (
	"context"
	"fmt"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

// InsertVerification - insert a verification attempt and fill its ID.
func (r *queries) InsertVerification(ctx context.Context, v *domain.Verification) error {
	if !domain.ValidID(v.UserID) {
		return fmt.Errorf("verification user %s: %w", v.UserID, apperr.ErrNotFound)
	}
	payload := []byte(v.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO verifications (user_id, verification_type, status, payload, verified_at)
        VALUES ($1, $2, $3, $4::jsonb, $5)
        RETURNING id, created_at
    `, v.UserID, string(v.Type), string(v.Status), string(payload), v.VerifiedAt).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// ListVerifications returns the verification attempts of a user, newest first.
func (r *queries) ListVerifications(ctx context.Context, userID string) ([]domain.Verification, error) {
	if !domain.ValidID(userID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
        SELECT id, user_id, verification_type, status, payload::text, verified_at, created_at
        FROM verifications WHERE user_id = $1 ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Verification
	for rows.Next() {
		var (
			v       domain.Verification
			payload string
		)
		if err := rows.Scan(&v.ID, &v.UserID, &v.Type, &v.Status, &payload, &v.VerifiedAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Payload = []byte(payload)
		out = append(out, v)
	}
	return out, rows.Err()
}
