package payment

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/stripe"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/ports/payments"
	"fleet-platform/internal/realtime"
)

var supportedCurrencies = map[string]struct{}{
	"NGN": {}, "USD": {}, "GHS": {}, "KES": {}, "ZAR": {}, "EUR": {}, "GBP": {},
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CreateRequest is the input of Create.
type CreateRequest struct {
	Provider    string
	Amount      float64
	Currency    string
	Description string
	TripID      *string
	Purpose     domain.PaymentPurpose
	Email       string
	Name        string
	Metadata    map[string]any
}

// WebhookSecrets holds the signing secrets of the two Stripe endpoints.
type WebhookSecrets struct {
	Payments      string
	Subscriptions string
}

// Service initiates and reconciles payments.
type Service struct {
	repo             repository
	registry         *Registry
	subscriptions    SubscriptionStarter
	publisher        realtime.Publisher
	metrics          observer
	secrets          WebhookSecrets
	logger           logx.Logger
	operationTimeout time.Duration
	newReference     func() string
}

// NewService creates a new payment Service. subscriptions, publisher and metrics may be nil.
func NewService(repo repository, registry *Registry, subscriptions SubscriptionStarter, publisher realtime.Publisher,
	metrics observer, secrets WebhookSecrets, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{
		repo:             repo,
		registry:         registry,
		subscriptions:    subscriptions,
		publisher:        publisher,
		metrics:          metrics,
		secrets:          secrets,
		logger:           logger,
		operationTimeout: timeout,
		newReference:     func() string { return "flt_" + strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Providers lists the configured providers.
func (s *Service) Providers() []domain.Provider { return s.registry.Providers() }

func (s *Service) observe(p domain.Provider, status string) {
	if s.metrics != nil {
		s.metrics.Inc(string(p), status)
	}
}

func validateCreate(req *CreateRequest) error {
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return apperr.WithReason(apperr.ErrInvalid, "Amount must be greater than zero")
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if _, ok := supportedCurrencies[req.Currency]; !ok {
		return apperr.WithReason(apperr.ErrInvalid, "Unsupported currency")
	}
	if req.Purpose == "" {
		req.Purpose = domain.PurposeTrip
	}
	if req.Purpose != domain.PurposeTrip && req.Purpose != domain.PurposeSubscription {
		return apperr.WithReason(apperr.ErrInvalid, "Invalid purpose")
	}
	if req.TripID != nil && strings.TrimSpace(*req.TripID) == "" {
		req.TripID = nil
	}
	return nil
}

// Create initializes a payment with the chosen provider and stores it as pending. When the
// provider accepted the payment but the local insert fails, the failure is logged and the
// initiation is still returned.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateRequest) (payments.Initiation, error) {
	if actor.IsZero() {
		return payments.Initiation{}, apperr.ErrUnauthorized
	}
	adapter, err := s.registry.Resolve(req.Provider)
	if err != nil {
		return payments.Initiation{}, err
	}
	if err := validateCreate(&req); err != nil {
		return payments.Initiation{}, err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = actor.Email
	}
	if email == "" && adapter.Provider() != domain.ProviderStripe {
		return payments.Initiation{}, apperr.WithReason(apperr.ErrInvalid, "Email is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ref := s.newReference()
	meta := make(map[string]any, len(req.Metadata)+3)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["user_id"] = actor.UserID
	meta["purpose"] = string(req.Purpose)
	if req.TripID != nil {
		meta["trip_id"] = *req.TripID
	}

	initiation, err := adapter.CreatePayment(ctx, payments.CreateRequest{
		Reference:   ref,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Email:       email,
		Name:        req.Name,
		Description: req.Description,
		Metadata:    meta,
	})
	if err != nil {
		s.observe(adapter.Provider(), "error")
		s.logger.Warn("payment initialization failed",
			logx.String("event", "payment_init_failed"),
			logx.String("provider", string(adapter.Provider())),
			logx.String("user_id", actor.UserID),
			logx.Err(err),
		)
		return payments.Initiation{}, err
	}
	if initiation.Reference == "" {
		initiation.Reference = ref
	}
	if initiation.Metadata == nil {
		initiation.Metadata = meta
	}

	p := &domain.Payment{
		UserID:      actor.UserID,
		TripID:      req.TripID,
		Provider:    adapter.Provider(),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      domain.PaymentPending,
		Reference:   initiation.Reference,
		Purpose:     req.Purpose,
		Description: req.Description,
		Metadata:    initiation.Metadata,
	}
	if err := s.repo.InsertPayment(ctx, p); err != nil {
		s.logger.Error("payment not recorded",
			logx.String("event", "payment_persist_failed"),
			logx.String("provider", string(p.Provider)),
			logx.String("reference", p.Reference),
			logx.Err(err),
		)
	} else {
		s.publish(ctx, realtime.EventInsert, *p, nil)
	}

	s.observe(p.Provider, string(domain.PaymentPending))
	s.logger.Info("payment initialized",
		logx.String("event", "payment_initialized"),
		logx.String("provider", string(p.Provider)),
		logx.String("reference", p.Reference),
		logx.String("user_id", actor.UserID),
		logx.Float64("amount", p.Amount),
		logx.String("currency", p.Currency),
	)
	return initiation, nil
}

// Verify asks the provider for the outcome of a payment and reconciles the local row.
// A missing or mismatched local row is logged; the verified result is returned regardless.
func (s *Service) Verify(ctx context.Context, actor domain.Actor, provider, reference string) (payments.Result, error) {
	if actor.IsZero() {
		return payments.Result{}, apperr.ErrUnauthorized
	}
	adapter, err := s.registry.Resolve(provider)
	if err != nil {
		return payments.Result{}, err
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return payments.Result{}, apperr.WithReason(apperr.ErrInvalid, "Reference is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := adapter.VerifyPayment(ctx, reference)
	if err != nil {
		s.observe(adapter.Provider(), "error")
		return payments.Result{}, err
	}
	if res.Provider == "" {
		res.Provider = adapter.Provider()
	}
	if res.Reference == "" {
		res.Reference = reference
	}

	local, err := s.repo.GetPaymentByReference(ctx, res.Provider, res.Reference)
	if err == nil && local != nil && local.UserID != actor.UserID &&
		actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSupervisor {
		return payments.Result{}, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}
	s.reconcile(ctx, res, local, err, "verify")
	return res, nil
}

// reconcile writes a verified result onto the local row. It never fails the caller.
func (s *Service) reconcile(ctx context.Context, res payments.Result, local *domain.Payment, lookupErr error, source string) {
	fields := []logx.Field{
		logx.String("provider", string(res.Provider)),
		logx.String("reference", res.Reference),
		logx.String("source", source),
	}
	if lookupErr != nil {
		s.logger.Error("payment lookup failed", append(fields, logx.String("event", "payment_reconcile_failed"), logx.Err(lookupErr))...)
		return
	}
	if local == nil {
		s.logger.Warn("verified payment has no local row", append(fields, logx.String("event", "payment_reconcile_missing"))...)
		return
	}
	if res.Currency != "" && !strings.EqualFold(res.Currency, local.Currency) {
		s.logger.Warn("payment currency mismatch", append(fields,
			logx.String("event", "payment_currency_mismatch"),
			logx.String("local", local.Currency),
			logx.String("verified", res.Currency))...)
	}
	if res.Amount > 0 && res.Amount != local.Amount {
		s.logger.Warn("payment amount mismatch", append(fields,
			logx.String("event", "payment_amount_mismatch"),
			logx.Float64("local", local.Amount),
			logx.Float64("verified", res.Amount))...)
	}

	status := res.Status
	if local.Status == domain.PaymentCompleted && status != domain.PaymentCompleted {
		s.logger.Warn("completed payment reported as "+string(status), append(fields, logx.String("event", "payment_downgrade_ignored"))...)
		return
	}
	if local.Status == status && (res.Amount <= 0 || res.Amount == local.Amount) {
		return
	}

	if _, err := s.repo.UpdatePaymentResult(ctx, local.Provider, local.Reference, status, res.Amount, res.PaidAt); err != nil {
		s.logger.Error("payment result not recorded", append(fields, logx.String("event", "payment_persist_failed"), logx.Err(err))...)
		return
	}

	updated := *local
	updated.Status = status
	if res.Amount > 0 {
		updated.Amount = res.Amount
	}
	if updated.PaidAt == nil {
		updated.PaidAt = res.PaidAt
	}
	s.observe(updated.Provider, string(status))
	s.logger.Info("payment reconciled", append(fields,
		logx.String("event", "payment_"+string(status)),
		logx.String("user_id", updated.UserID),
		logx.Float64("amount", updated.Amount))...)
	s.publish(ctx, realtime.EventUpdate, updated, local)
}

// HandleStripeWebhook reconciles payment_intent events. Other event types are acknowledged.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := stripe.ParseEvent(payload, signature, s.secrets.Payments)
	if err != nil {
		s.logger.Warn("stripe webhook rejected", logx.String("event", "stripe_webhook_rejected"), logx.Err(err))
		return err
	}
	if ev.Payment == nil {
		s.logger.Info("stripe webhook ignored",
			logx.String("event", "stripe_webhook_ignored"),
			logx.String("type", ev.Type),
			logx.String("id", ev.ID),
		)
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	local, err := s.repo.GetPaymentByReference(ctx, domain.ProviderStripe, ev.Payment.Reference)
	if err != nil {
		return err
	}
	s.reconcile(ctx, *ev.Payment, local, nil, "webhook")
	return nil
}

// HandleStripeSubscriptionWebhook mirrors subscription lifecycle events into the subscriptions
// table. Other event types are acknowledged.
func (s *Service) HandleStripeSubscriptionWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := stripe.ParseEvent(payload, signature, s.secrets.Subscriptions)
	if err != nil {
		s.logger.Warn("stripe subscription webhook rejected", logx.String("event", "stripe_webhook_rejected"), logx.Err(err))
		return err
	}
	ch := ev.Subscription
	if ch == nil {
		s.logger.Info("stripe subscription webhook ignored",
			logx.String("event", "stripe_webhook_ignored"),
			logx.String("type", ev.Type),
			logx.String("id", ev.ID),
		)
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	matched, err := s.repo.UpdateSubscriptionStatus(ctx, ch.SubscriptionID, ch.Status, ch.PeriodEnd)
	if err != nil {
		return err
	}
	if !matched {
		userID := ch.Metadata["user_id"]
		if userID == "" {
			s.logger.Warn("subscription event for unknown subscription",
				logx.String("event", "subscription_unknown"),
				logx.String("type", ev.Type),
				logx.String("subscription_id", ch.SubscriptionID),
			)
			return nil
		}
		sub := &domain.Subscription{
			UserID:               userID,
			StripeSubscriptionID: ch.SubscriptionID,
			StripeCustomerID:     ch.CustomerID,
			PriceID:              ch.PriceID,
			Status:               ch.Status,
			CurrentPeriodEnd:     ch.PeriodEnd,
		}
		if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
			return err
		}
	}

	s.logger.Info("subscription updated",
		logx.String("event", "subscription_updated"),
		logx.String("type", ev.Type),
		logx.String("subscription_id", ch.SubscriptionID),
		logx.String("status", ch.Status),
	)
	return nil
}

// CreateSubscription starts a Stripe subscription for the caller.
func (s *Service) CreateSubscription(ctx context.Context, actor domain.Actor, priceID string) (stripe.SubscriptionStart, error) {
	if actor.IsZero() {
		return stripe.SubscriptionStart{}, apperr.ErrUnauthorized
	}
	if s.subscriptions == nil {
		return stripe.SubscriptionStart{}, apperr.WithReason(apperr.ErrUnavailable, "Subscriptions are not configured")
	}
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return stripe.SubscriptionStart{}, apperr.WithReason(apperr.ErrInvalid, "price_id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	email := actor.Email
	if email == "" {
		p, err := s.repo.GetProfile(ctx, actor.UserID)
		if err != nil {
			return stripe.SubscriptionStart{}, err
		}
		if p == nil {
			return stripe.SubscriptionStart{}, apperr.WithReason(apperr.ErrNotFound, "Profile not found")
		}
		email = p.Email
	}

	start, err := s.subscriptions.CreateSubscription(ctx, stripe.SubscriptionRequest{
		Email:    email,
		PriceID:  priceID,
		Metadata: map[string]string{"user_id": actor.UserID},
	})
	if err != nil {
		return stripe.SubscriptionStart{}, err
	}

	sub := &domain.Subscription{
		UserID:               actor.UserID,
		StripeSubscriptionID: start.SubscriptionID,
		StripeCustomerID:     start.CustomerID,
		PriceID:              priceID,
		Status:               start.Status,
		CurrentPeriodEnd:     start.CurrentPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		s.logger.Error("subscription not recorded",
			logx.String("event", "subscription_persist_failed"),
			logx.String("subscription_id", start.SubscriptionID),
			logx.Err(err),
		)
	}

	s.logger.Info("subscription created",
		logx.String("event", "subscription_created"),
		logx.String("user_id", actor.UserID),
		logx.String("subscription_id", start.SubscriptionID),
		logx.String("price_id", priceID),
	)
	return start, nil
}

// List returns payments newest first. Supervisors and admins see every user's payments.
func (s *Service) List(ctx context.Context, actor domain.Actor, limit *int) ([]domain.Payment, error) {
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
	userID := actor.UserID
	if actor.Role == domain.RoleAdmin || actor.Role == domain.RoleSupervisor {
		userID = ""
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListPayments(ctx, userID, n)
}

func (s *Service) publish(ctx context.Context, typ realtime.EventType, p domain.Payment, old *domain.Payment) {
	if s.publisher == nil {
		return
	}
	ev := realtime.NewEvent(realtime.TopicPaymentUpdates, "payments", typ, realtime.PaymentRecord(p), time.Now().UTC())
	if old != nil {
		ev.OldRecord = realtime.PaymentRecord(*old)
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("realtime publish failed",
			logx.String("event", "realtime_publish_failed"),
			logx.String("topic", string(ev.Topic)),
			logx.Err(err),
		)
	}
}
