package verification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/ports/fleettx"
)

// Request asks for one identity check. An empty UserID means the caller.
type Request struct {
	Type   domain.VerificationType
	Data   map[string]string
	UserID string
}

// Outcome is the result returned to the caller.
type Outcome struct {
	VerificationID string
	Status         domain.VerificationStatus
	Detail         string
	Data           json.RawMessage
	ProfileUpdated bool
}

// Service runs identity verifications.
type Service struct {
	repo             repository
	verifier         Verifier
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates a new verification Service.
func NewService(repo repository, verifier Verifier, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		repo:             repo,
		verifier:         verifier,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// VerifyIdentity validates the document fields, asks the provider and records the attempt.
// The first successful check marks the profile verified. Once the provider has answered,
// a failure to record the attempt is logged and the verdict is still returned.
func (s *Service) VerifyIdentity(ctx context.Context, actor domain.Actor, req Request) (Outcome, error) {
	if actor.IsZero() {
		return Outcome{}, apperr.ErrUnauthorized
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && actor.Role != domain.RoleAdmin {
		return Outcome{}, apperr.WithReason(apperr.ErrForbidden, "You can only verify your own identity")
	}
	if !req.Type.Valid() {
		return Outcome{}, invalid("Unsupported verification type")
	}
	payload, err := normalize(req.Type, req.Data, s.now())
	if err != nil {
		return Outcome{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}
	if profile == nil {
		return Outcome{}, apperr.WithReason(apperr.ErrNotFound, "Profile not found")
	}

	res, err := s.verifier.Verify(ctx, req.Type, payload)
	if err != nil {
		s.logger.Warn("verification provider failed",
			logx.String("event", "verification_provider_failed"),
			logx.String("user_id", userID),
			logx.String("type", string(req.Type)),
			logx.Err(err),
		)
		return Outcome{}, err
	}

	out := Outcome{Status: domain.VerificationFailed, Detail: res.Detail, Data: res.Data}
	if res.Status {
		out.Status = domain.VerificationVerified
	}

	record, err := json.Marshal(map[string]any{
		"request":       mask(payload),
		"detail":        res.Detail,
		"response_code": res.ResponseCode,
	})
	if err != nil {
		return Outcome{}, err
	}
	v := domain.Verification{
		UserID:  userID,
		Type:    req.Type,
		Status:  out.Status,
		Payload: record,
	}
	if res.Status {
		at := s.now()
		v.VerifiedAt = &at
	}

	err = s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		if err := tx.InsertVerification(ctx, &v); err != nil {
			return err
		}
		if !res.Status {
			return nil
		}
		changed, err := tx.MarkProfileVerified(ctx, userID, req.Type.Level())
		if err != nil {
			return err
		}
		out.ProfileUpdated = changed
		return nil
	})
	if err != nil {
		s.logger.Error("verification not recorded",
			logx.String("event", "verification_persist_failed"),
			logx.String("user_id", userID),
			logx.String("type", string(req.Type)),
			logx.String("status", string(out.Status)),
			logx.Err(err),
		)
		out.ProfileUpdated = false
		return out, nil
	}
	out.VerificationID = v.ID

	s.logger.Info("identity verification recorded",
		logx.String("event", "identity_"+string(out.Status)),
		logx.String("user_id", userID),
		logx.String("type", string(req.Type)),
		logx.Bool("profile_updated", out.ProfileUpdated),
	)
	return out, nil
}

// History returns the verification attempts of userID. Only admins may read other users.
func (s *Service) History(ctx context.Context, actor domain.Actor, userID string) ([]domain.Verification, error) {
	if actor.IsZero() {
		return nil, apperr.ErrUnauthorized
	}
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListVerifications(ctx, userID)
}
