//go:generate mockgen -source=contracts.go -destination=verification_mocks_test.go -package=verification_test

package verification

import (
	"context"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/prembly"
	"fleet-platform/internal/ports/fleettx"
)

type repository interface {
	WithTx(ctx context.Context, fn func(tx fleettx.Repository) error) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	ListVerifications(ctx context.Context, userID string) ([]domain.Verification, error)
}

// Verifier checks identity documents with an external provider.
type Verifier interface {
	Verify(ctx context.Context, typ domain.VerificationType, data map[string]string) (prembly.Result, error)
}
