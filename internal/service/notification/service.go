package notification

import (
	"context"
	"strings"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/ports/fleettx"
	"fleet-platform/internal/realtime"
)

const (
	maxRecipients    = 500
	defaultListLimit = 50
	maxListLimit     = 200
)

// SendRequest addresses a notification to explicit users or to every active profile of a role.
type SendRequest struct {
	UserIDs []string
	Role    domain.Role
	Title   string
	Message string
	Type    domain.NotificationType
	Data    map[string]any
}

// Service sends and lists notifications.
type Service struct {
	repo             repository
	publisher        realtime.Publisher
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewService creates a new notification Service.
func NewService(repo repository, publisher realtime.Publisher, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateSend(req *SendRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return apperr.WithReason(apperr.ErrInvalid, "Title and message are required")
	}
	if req.Type == "" {
		req.Type = domain.NotificationInfo
	}
	if !req.Type.Valid() {
		return apperr.WithReason(apperr.ErrInvalid, "Invalid notification type")
	}
	if len(req.UserIDs) == 0 && req.Role == "" {
		return apperr.WithReason(apperr.ErrInvalid, "user_ids or role is required")
	}
	if len(req.UserIDs) > 0 && req.Role != "" {
		return apperr.WithReason(apperr.ErrInvalid, "Specify either user_ids or role")
	}
	if req.Role != "" && !req.Role.Valid() {
		return apperr.WithReason(apperr.ErrInvalid, "Invalid role")
	}
	if len(req.UserIDs) > maxRecipients {
		return apperr.WithReason(apperr.ErrInvalid, "Too many recipients")
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Send stores one notification per recipient. Either all recipients are notified or none.
func (s *Service) Send(ctx context.Context, actor domain.Actor, req SendRequest) ([]domain.Notification, error) {
	if !actor.Role.CanManageTrips() {
		return nil, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}
	if err := validateSend(&req); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	recipients := dedupe(req.UserIDs)
	if req.Role != "" {
		profiles, err := s.repo.ListProfilesByRole(ctx, req.Role)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			recipients = append(recipients, p.ID)
		}
	}
	if len(recipients) == 0 {
		return []domain.Notification{}, nil
	}

	sent := make([]domain.Notification, 0, len(recipients))
	err := s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		sent = sent[:0]
		for _, uid := range recipients {
			n := domain.Notification{
				UserID:  uid,
				Title:   req.Title,
				Message: req.Message,
				Type:    req.Type,
				Data:    req.Data,
			}
			if err := tx.InsertNotification(ctx, &n); err != nil {
				return err
			}
			sent = append(sent, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("notifications sent",
		logx.String("event", "notifications_sent"),
		logx.String("sender", actor.UserID),
		logx.String("role", string(req.Role)),
		logx.Int("recipients", len(sent)),
	)

	if s.publisher != nil {
		for _, n := range sent {
			ev := realtime.NewEvent(realtime.TopicUserNotifications, "notifications", realtime.EventInsert,
				realtime.NotificationRecord(n), n.CreatedAt)
			if err := s.publisher.Publish(ctx, ev); err != nil {
				s.logger.Warn("realtime publish failed",
					logx.String("event", "realtime_publish_failed"),
					logx.String("topic", string(ev.Topic)),
					logx.Err(err),
				)
			}
		}
	}
	return sent, nil
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit *int) ([]domain.Notification, error) {
	if actor.IsZero() {
		return nil, apperr.ErrUnauthorized
	}
	n := defaultListLimit
	if limit != nil {
		if *limit <= 0 {
			return nil, apperr.WithReason(apperr.ErrInvalid, "Invalid limit")
		}
		n = min(*limit, maxListLimit)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListNotifications(ctx, actor.UserID, unreadOnly, n)
}

// MarkRead marks one of the caller's notifications read. Marking twice is harmless.
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	if actor.IsZero() {
		return apperr.ErrUnauthorized
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.WithReason(apperr.ErrInvalid, "Notification id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.MarkNotificationRead(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.WithReason(apperr.ErrNotFound, "Notification not found")
	}
	return nil
}
