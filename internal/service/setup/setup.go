// Package setup reports and applies the database schema on first boot.
package setup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
)

// Status is the table presence report.
type Status struct {
	Tables  map[string]bool `json:"tables"`
	Missing []string        `json:"missing"`
	Ready   bool            `json:"ready"`
}

// Service applies the schema.
type Service struct {
	repo             repository
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewService creates a new setup Service.
func NewService(repo repository, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{repo: repo, logger: logger, operationTimeout: timeout}
}

// Status reports which tables exist.
func (s *Service) Status(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()
	return s.status(ctx)
}

func (s *Service) status(ctx context.Context) (Status, error) {
	tables, err := s.repo.TableStatus(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("table status: %w", err)
	}
	st := Status{Tables: tables, Missing: []string{}}
	for name, ok := range tables {
		if !ok {
			st.Missing = append(st.Missing, name)
		}
	}
	sort.Strings(st.Missing)
	st.Ready = len(st.Missing) == 0
	return st, nil
}

// Apply creates the schema and makes actor an admin. It is allowed for admins, and for any
// authenticated caller while no admin exists yet.
func (s *Service) Apply(ctx context.Context, actor domain.Actor) (Status, error) {
	if actor.IsZero() {
		return Status{}, apperr.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	if actor.Role != domain.RoleAdmin {
		before, err := s.status(ctx)
		if err != nil {
			return Status{}, err
		}
		// without a profiles table nobody can be admin yet
		if before.Tables["profiles"] {
			n, err := s.repo.CountAdmins(ctx)
			if err != nil {
				return Status{}, fmt.Errorf("count admins: %w", err)
			}
			if n > 0 {
				return Status{}, apperr.WithReason(apperr.ErrForbidden, "Admin access required")
			}
		}
	}

	if err := s.repo.Apply(ctx); err != nil {
		s.logger.Error("schema apply failed", logx.String("event", "schema_apply_failed"), logx.Err(err))
		return Status{}, err
	}
	if actor.Role != domain.RoleAdmin {
		if err := s.repo.PromoteToAdmin(ctx, actor.UserID, actor.Email); err != nil {
			return Status{}, err
		}
	}

	st, err := s.status(ctx)
	if err != nil {
		return Status{}, err
	}
	s.logger.Info("schema applied",
		logx.String("event", "schema_applied"),
		logx.String("user_id", actor.UserID),
		logx.Bool("promoted", actor.Role != domain.RoleAdmin),
		logx.Bool("ready", st.Ready),
	)
	return st, nil
}
