package setup

import "context"

type repository interface {
	Apply(ctx context.Context) error
	TableStatus(ctx context.Context) (map[string]bool, error)
	CountAdmins(ctx context.Context) (int, error)
	PromoteToAdmin(ctx context.Context, userID, email string) error
}
