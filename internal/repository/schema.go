package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists the tables created by the embedded schema.
var Tables = []string{
	"profiles", "trucks", "truck_locations", "trips",
	"payments", "notifications", "verifications", "subscriptions",
}

// SchemaRepo applies and inspects the database schema.
type SchemaRepo struct{ db *pgxpool.Pool }

// NewSchemaRepo creates a new SchemaRepo.
func NewSchemaRepo(db *pgxpool.Pool) *SchemaRepo { return &SchemaRepo{db: db} }

// Apply runs the idempotent schema script.
func (r *SchemaRepo) Apply(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// TableStatus reports which schema tables exist.
func (r *SchemaRepo) TableStatus(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool, len(Tables))
	for _, name := range Tables {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+name).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check table %s: %w", name, err)
		}
		out[name] = exists
	}
	return out, nil
}

// CountAdmins returns the number of admin profiles.
func (r *SchemaRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE role = 'admin'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// PromoteToAdmin creates or promotes the profile to the admin role.
func (r *SchemaRepo) PromoteToAdmin(ctx context.Context, userID, email string) error {
	if !domain.ValidID(userID) {
		return fmt.Errorf("promote %s: %w", userID, apperr.ErrInvalid)
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO profiles (id, email, role)
        VALUES ($1, $2, 'admin')
        ON CONFLICT (id) DO UPDATE SET role = 'admin', updated_at = now()
    `, userID, email)
	if err != nil {
		return fmt.Errorf("promote %s: %w", userID, err)
	}
	return nil
}
