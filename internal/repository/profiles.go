package repository

import (
	"context"
	"fmt"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

const profileColumns = `id, email, full_name, phone, role, status, is_verified, verification_level, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Role, &p.Status,
		&p.IsVerified, &p.VerificationLevel, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProfile - returns profile by its ID.
func (r *queries) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	if !domain.ValidID(id) {
		return nil, nil
	}
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return &p, nil
}

// ListProfilesByRole returns active profiles having role.
func (r *queries) ListProfilesByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE role = $1 AND status = 'active' ORDER BY created_at`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list profiles by role %s: %w", role, err)
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertProfile - creates a new profile and fills its ID.
func (r *queries) InsertProfile(ctx context.Context, p *domain.Profile) error {
	if p.Status == "" {
		p.Status = domain.ProfileActive
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO profiles (email, full_name, phone, role, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, p.Email, p.FullName, p.Phone, string(p.Role), string(p.Status)).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// MarkProfileVerified flips is_verified on the first successful verification only.
// It reports whether the profile was changed.
func (r *queries) MarkProfileVerified(ctx context.Context, userID string, level int) (bool, error) {
	if !domain.ValidID(userID) {
		return false, nil
	}
	ct, err := r.q.Exec(ctx, `
        UPDATE profiles
        SET is_verified = true, verification_level = $2, updated_at = now()
        WHERE id = $1 AND is_verified = false
    `, userID, level)
	if err != nil {
		return false, fmt.Errorf("mark profile %s verified: %w", userID, err)
	}
	return ct.RowsAffected() > 0, nil
}
