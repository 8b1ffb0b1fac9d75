package trip

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
	defaultListLimit = 50
	maxListLimit     = 200
)

// CreateRequest is the input of Create.
type CreateRequest struct {
	TruckID           string
	DriverID          string
	CustomerID        string
	Origin            string
	Destination       string
	ScheduledPickup   *time.Time
	ScheduledDelivery *time.Time
	Priority          domain.TripPriority
	Cargo             domain.Cargo
	Notes             string
}

// Service implements the trip lifecycle.
type Service struct {
	repo             repository
	distance         DistanceEstimator
	publisher        realtime.Publisher
	logger           logx.Logger
	baseRate         float64
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates a new trip Service.
func NewService(repo repository, distance DistanceEstimator, publisher realtime.Publisher,
	logger logx.Logger, baseRate float64, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if baseRate <= 0 {
		baseRate = DefaultBaseRate
	}
	return &Service{
		repo:             repo,
		distance:         distance,
		publisher:        publisher,
		logger:           logger,
		baseRate:         baseRate,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

var errInsufficient = apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")

func validateCreate(req *CreateRequest) error {
	req.TruckID = strings.TrimSpace(req.TruckID)
	req.DriverID = strings.TrimSpace(req.DriverID)
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.TruckID == "" || req.DriverID == "" || req.Origin == "" || req.Destination == "" {
		return apperr.WithReason(apperr.ErrInvalid, "Missing required fields")
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !req.Priority.Valid() {
		return apperr.WithReason(apperr.ErrInvalid, "Invalid priority")
	}
	if req.Cargo.Weight < 0 {
		return apperr.WithReason(apperr.ErrInvalid, "Invalid cargo weight")
	}
	if req.ScheduledPickup != nil && req.ScheduledDelivery != nil && req.ScheduledDelivery.Before(*req.ScheduledPickup) {
		return apperr.WithReason(apperr.ErrInvalid, "Delivery cannot be scheduled before pickup")
	}
	return nil
}

// Create schedules a trip. The trip insert, the truck assignment and the driver notification
// commit together; the broadcast is published after commit.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req CreateRequest) (domain.Trip, error) {
	if !actor.Role.CanManageTrips() {
		return domain.Trip{}, errInsufficient
	}
	if err := validateCreate(&req); err != nil {
		return domain.Trip{}, err
	}
	if req.CustomerID == "" && actor.Role == domain.RoleContractor {
		req.CustomerID = actor.UserID
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	distance, err := s.distance.Estimate(ctx, req.Origin, req.Destination)
	if err != nil {
		return domain.Trip{}, err
	}
	est := EstimateTrip(distance, req.Cargo.Weight, req.Priority, s.baseRate)

	var (
		trip  domain.Trip
		truck domain.Truck
		note  domain.Notification
	)
	err = s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		t, err := tx.GetTruckForUpdate(ctx, req.TruckID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.WithReason(apperr.ErrNotFound, "Truck not found")
		}
		if t.Status != domain.TruckAvailable {
			return apperr.WithReason(apperr.ErrUnavailable, "Truck is not available")
		}

		driver, err := tx.GetProfile(ctx, req.DriverID)
		if err != nil {
			return err
		}
		if driver == nil || driver.Role != domain.RoleDriver {
			return apperr.WithReason(apperr.ErrNotFound, "Driver not found")
		}

		trip = domain.Trip{
			TruckID:           req.TruckID,
			DriverID:          req.DriverID,
			CustomerID:        req.CustomerID,
			Origin:            req.Origin,
			Destination:       req.Destination,
			ScheduledPickup:   req.ScheduledPickup,
			ScheduledDelivery: req.ScheduledDelivery,
			Status:            domain.TripScheduled,
			Priority:          req.Priority,
			Cargo:             req.Cargo,
			EstimatedDistance: est.Distance,
			EstimatedDuration: est.Duration,
			EstimatedCost:     est.Cost,
			Notes:             req.Notes,
			CreatedBy:         actor.UserID,
		}
		if err := tx.InsertTrip(ctx, &trip); err != nil {
			return err
		}
		if err := tx.UpdateTruckStatus(ctx, t.ID, domain.TruckAssigned); err != nil {
			return err
		}
		truck = *t
		truck.Status = domain.TruckAssigned

		note = domain.Notification{
			UserID:  driver.ID,
			Title:   "New Trip Assigned",
			Message: "You have been assigned a new trip from " + trip.Origin + " to " + trip.Destination + ".",
			Type:    domain.NotificationTrip,
			Data:    map[string]any{"trip_id": trip.ID},
		}
		return tx.InsertNotification(ctx, &note)
	})
	if err != nil {
		return domain.Trip{}, err
	}

	s.logger.Info("trip created",
		logx.String("event", "trip_created"),
		logx.String("trip_id", trip.ID),
		logx.String("truck_id", trip.TruckID),
		logx.String("driver_id", trip.DriverID),
		logx.String("created_by", actor.UserID),
		logx.Float64("estimated_cost", trip.EstimatedCost),
	)

	now := s.now()
	s.publish(ctx,
		realtime.NewEvent(realtime.TopicTripUpdates, "trips", realtime.EventInsert, realtime.TripRecord(trip), now),
		realtime.NewEvent(realtime.TopicTruckTracking, "trucks", realtime.EventUpdate, realtime.TruckRecord(truck), now),
		realtime.NewEvent(realtime.TopicUserNotifications, "notifications", realtime.EventInsert, realtime.NotificationRecord(note), now),
	)
	return trip, nil
}

// UpdateStatus moves a trip to a new status. Drivers may only update their own trips.
// Completing or cancelling frees the truck and notifies the customer, and the driver when
// someone else closed the trip.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, u domain.TripStatusUpdate) (domain.Trip, error) {
	if !actor.Role.CanManageTrips() && actor.Role != domain.RoleDriver {
		return domain.Trip{}, errInsufficient
	}
	u.TripID = strings.TrimSpace(u.TripID)
	if u.TripID == "" {
		return domain.Trip{}, apperr.WithReason(apperr.ErrInvalid, "Trip id is required")
	}
	if !u.Status.Valid() {
		return domain.Trip{}, apperr.WithReason(apperr.ErrInvalid, "Invalid status")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		before, after domain.Trip
		freed         *domain.Truck
		notes         []domain.Notification
	)
	err := s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		t, err := tx.GetTripForUpdate(ctx, u.TripID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.WithReason(apperr.ErrNotFound, "Trip not found")
		}
		if actor.Role == domain.RoleDriver && t.DriverID != actor.UserID {
			return errInsufficient
		}
		if t.Status.Terminal() && t.Status != u.Status {
			return apperr.WithReason(apperr.ErrConflict, "Trip is already "+string(t.Status))
		}

		before = *t
		now := s.now()
		t.Status = u.Status
		if stamp, ok := stamps[u.Status]; ok {
			stamp(t, now)
		}
		if u.Notes != nil {
			t.Notes = *u.Notes
		}
		if err := tx.UpdateTrip(ctx, t); err != nil {
			return err
		}
		after = *t

		if !u.Status.Terminal() || before.Status == u.Status {
			return nil
		}

		truck, err := tx.GetTruckForUpdate(ctx, t.TruckID)
		if err != nil {
			return err
		}
		if truck != nil {
			if err := tx.UpdateTruckStatus(ctx, truck.ID, domain.TruckAvailable); err != nil {
				return err
			}
			truck.Status = domain.TruckAvailable
			freed = truck
		}

		title, message := statusMessage(after)
		recipients := make([]string, 0, 2)
		if after.CustomerID != "" {
			recipients = append(recipients, after.CustomerID)
		}
		if after.DriverID != actor.UserID && after.DriverID != after.CustomerID {
			recipients = append(recipients, after.DriverID)
		}
		for _, uid := range recipients {
			n := domain.Notification{
				UserID:  uid,
				Title:   title,
				Message: message,
				Type:    statusNotificationType(after.Status),
				Data:    map[string]any{"trip_id": after.ID, "status": string(after.Status)},
			}
			if err := tx.InsertNotification(ctx, &n); err != nil {
				return err
			}
			notes = append(notes, n)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}

	s.logger.Info("trip status updated",
		logx.String("event", "trip_status_updated"),
		logx.String("trip_id", after.ID),
		logx.String("from", string(before.Status)),
		logx.String("to", string(after.Status)),
		logx.String("actor", actor.UserID),
	)

	now := s.now()
	ev := realtime.NewEvent(realtime.TopicTripUpdates, "trips", realtime.EventUpdate, realtime.TripRecord(after), now)
	ev.OldRecord = realtime.TripRecord(before)
	events := []realtime.ChangeEvent{ev}
	if freed != nil {
		events = append(events,
			realtime.NewEvent(realtime.TopicTruckTracking, "trucks", realtime.EventUpdate, realtime.TruckRecord(*freed), now))
	}
	for _, n := range notes {
		events = append(events,
			realtime.NewEvent(realtime.TopicUserNotifications, "notifications", realtime.EventInsert, realtime.NotificationRecord(n), now))
	}
	s.publish(ctx, events...)
	return after, nil
}

// ListRequest narrows List.
type ListRequest struct {
	Status  domain.TripStatus
	TruckID string
	Limit   *int
	Offset  *int
}

// List returns the trips visible to actor. Drivers always see only their own trips and
// contractors only the trips they created.
func (s *Service) List(ctx context.Context, actor domain.Actor, req ListRequest) ([]domain.Trip, error) {
	if actor.IsZero() {
		return nil, apperr.ErrUnauthorized
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, apperr.WithReason(apperr.ErrInvalid, "Invalid status")
	}
	if (req.Limit != nil && *req.Limit <= 0) || (req.Offset != nil && *req.Offset < 0) {
		return nil, apperr.WithReason(apperr.ErrInvalid, "Invalid pagination")
	}

	limit := defaultListLimit
	if req.Limit != nil {
		limit = min(*req.Limit, maxListLimit)
	}
	f := domain.TripFilter{
		Status:  req.Status,
		TruckID: strings.TrimSpace(req.TruckID),
		Limit:   &limit,
		Offset:  req.Offset,
	}
	switch actor.Role {
	case domain.RoleDriver:
		f.DriverID = actor.UserID
	case domain.RoleContractor:
		f.CreatedBy = actor.UserID
	case domain.RoleSupervisor, domain.RoleAdmin:
	default:
		return nil, errInsufficient
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListTrips(ctx, f)
}

// Get returns one trip when actor may see it.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (domain.Trip, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, err := s.repo.GetTrip(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Trip{}, err
	}
	if t == nil {
		return domain.Trip{}, apperr.WithReason(apperr.ErrNotFound, "Trip not found")
	}
	switch {
	case actor.Role == domain.RoleDriver && t.DriverID != actor.UserID,
		actor.Role == domain.RoleContractor && t.CreatedBy != actor.UserID && t.CustomerID != actor.UserID:
		return domain.Trip{}, apperr.WithReason(apperr.ErrNotFound, "Trip not found")
	}
	return *t, nil
}

func (s *Service) publish(ctx context.Context, events ...realtime.ChangeEvent) {
	if s.publisher == nil {
		return
	}
	for _, ev := range events {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("realtime publish failed",
				logx.String("event", "realtime_publish_failed"),
				logx.String("topic", string(ev.Topic)),
				logx.String("event_id", ev.ID),
				logx.Err(err),
			)
		}
	}
}
