package notification

import (
	"context"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/fleettx"
)

type repository interface {
	WithTx(ctx context.Context, fn func(tx fleettx.Repository) error) error
	ListProfilesByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) (bool, error)
}
