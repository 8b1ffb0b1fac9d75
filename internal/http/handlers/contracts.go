package handlers

import (
	"context"

	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/stripe"
	"fleet-platform/internal/ports/payments"
	"fleet-platform/internal/service/dashboard"
	"fleet-platform/internal/service/notification"
	"fleet-platform/internal/service/payment"
	"fleet-platform/internal/service/setup"
	"fleet-platform/internal/service/trip"
	"fleet-platform/internal/service/truck"
	"fleet-platform/internal/service/verification"
)

type tripUsecase interface {
	Create(ctx context.Context, actor domain.Actor, req trip.CreateRequest) (domain.Trip, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, u domain.TripStatusUpdate) (domain.Trip, error)
	List(ctx context.Context, actor domain.Actor, req trip.ListRequest) ([]domain.Trip, error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.Trip, error)
}

type truckUsecase interface {
	Locations(ctx context.Context, truckID string, limit *int) ([]domain.TruckLocation, error)
	List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error)
	RecordLocation(ctx context.Context, actor domain.Actor, req truck.LocationRequest) (domain.TruckLocation, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, req truck.StatusRequest) (domain.Truck, error)
}

type notificationUsecase interface {
	Send(ctx context.Context, actor domain.Actor, req notification.SendRequest) ([]domain.Notification, error)
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit *int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
}

type verificationUsecase interface {
	VerifyIdentity(ctx context.Context, actor domain.Actor, req verification.Request) (verification.Outcome, error)
	History(ctx context.Context, actor domain.Actor, userID string) ([]domain.Verification, error)
}

type paymentUsecase interface {
	Create(ctx context.Context, actor domain.Actor, req payment.CreateRequest) (payments.Initiation, error)
	Verify(ctx context.Context, actor domain.Actor, provider, reference string) (payments.Result, error)
	List(ctx context.Context, actor domain.Actor, limit *int) ([]domain.Payment, error)
	CreateSubscription(ctx context.Context, actor domain.Actor, priceID string) (stripe.SubscriptionStart, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	HandleStripeSubscriptionWebhook(ctx context.Context, payload []byte, signature string) error
	Providers() []domain.Provider
}

type setupUsecase interface {
	Status(ctx context.Context) (setup.Status, error)
	Apply(ctx context.Context, actor domain.Actor) (setup.Status, error)
}

type dashboardUsecase interface {
	Build(ctx context.Context, actor domain.Actor) (dashboard.View, error)
}
