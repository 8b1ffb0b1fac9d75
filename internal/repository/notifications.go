package repository

import (
	"context"
	"fmt"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

// InsertNotification - insert a notification and fill its ID.
func (r *queries) InsertNotification(ctx context.Context, n *domain.Notification) error {
	if !domain.ValidID(n.UserID) {
		return apperr.WithReason(apperr.ErrNotFound, "Recipient not found")
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO notifications (user_id, title, message, type, data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `, n.UserID, n.Title, n.Message, string(n.Type), n.Data).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if IsForeignKey(err) {
			return apperr.WithReason(apperr.ErrNotFound, "Recipient not found")
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns the newest notifications of a user.
func (r *queries) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if !domain.ValidID(userID) {
		return nil, nil
	}
	q := `SELECT id, user_id, title, message, type, data, read_at, created_at
        FROM notifications WHERE user_id = $1`
	if unreadOnly {
		q += ` AND read_at IS NULL`
	}
	q += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.q.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Data, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead sets read_at once; it reports whether the notification belongs to userID.
func (r *queries) MarkNotificationRead(ctx context.Context, id, userID string) (bool, error) {
	if !domain.ValidID(id) || !domain.ValidID(userID) {
		return false, nil
	}
	ct, err := r.q.Exec(ctx, `
        UPDATE notifications
        SET read_at = COALESCE(read_at, now())
        WHERE id = $1 AND user_id = $2
    `, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
