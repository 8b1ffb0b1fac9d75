package truck

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
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// LocationRequest is one position report.
type LocationRequest struct {
	TruckID    string
	Latitude   float64
	Longitude  float64
	Speed      *float64
	Heading    *float64
	RecordedAt *time.Time
}

// StatusRequest changes the operational status of a truck.
type StatusRequest struct {
	TruckID string
	Status  domain.TruckStatus
	Reason  string
}

// Service records truck positions and status changes.
type Service struct {
	repo             repository
	publisher        realtime.Publisher
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates a new truck Service.
func NewService(repo repository, publisher realtime.Publisher, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		publisher:        publisher,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Locations returns the latest position of every truck, or the history of one truck.
func (s *Service) Locations(ctx context.Context, truckID string, limit *int) ([]domain.TruckLocation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	truckID = strings.TrimSpace(truckID)
	if truckID == "" {
		return s.repo.LatestLocations(ctx)
	}

	n := defaultHistoryLimit
	if limit != nil {
		if *limit <= 0 {
			return nil, apperr.WithReason(apperr.ErrInvalid, "Invalid limit")
		}
		n = min(*limit, maxHistoryLimit)
	}
	t, err := s.repo.GetTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.WithReason(apperr.ErrNotFound, "Truck not found")
	}
	return s.repo.LocationHistory(ctx, truckID, n)
}

// List returns trucks, optionally only those with status.
func (s *Service) List(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.WithReason(apperr.ErrInvalid, "Invalid status")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListTrucks(ctx, status)
}

func validateLocation(req *LocationRequest) error {
	req.TruckID = strings.TrimSpace(req.TruckID)
	switch {
	case req.TruckID == "":
		return apperr.WithReason(apperr.ErrInvalid, "truck_id is required")
	case req.Latitude < -90 || req.Latitude > 90, req.Longitude < -180 || req.Longitude > 180:
		return apperr.WithReason(apperr.ErrInvalid, "Invalid coordinates")
	case req.Speed != nil && *req.Speed < 0:
		return apperr.WithReason(apperr.ErrInvalid, "Invalid speed")
	case req.Heading != nil && (*req.Heading < 0 || *req.Heading >= 360):
		return apperr.WithReason(apperr.ErrInvalid, "Invalid heading")
	}
	return nil
}

// RecordLocation appends a position to the truck's log and mirrors it to the truck row.
func (s *Service) RecordLocation(ctx context.Context, actor domain.Actor, req LocationRequest) (domain.TruckLocation, error) {
	if actor.Role != domain.RoleDriver && actor.Role != domain.RoleSupervisor && actor.Role != domain.RoleAdmin {
		return domain.TruckLocation{}, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}
	if err := validateLocation(&req); err != nil {
		return domain.TruckLocation{}, err
	}

	now := s.now()
	loc := domain.TruckLocation{
		TruckID:    req.TruckID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Speed:      req.Speed,
		Heading:    req.Heading,
		RecordedAt: now,
	}
	if req.RecordedAt != nil {
		if req.RecordedAt.After(now.Add(time.Minute)) {
			return domain.TruckLocation{}, apperr.WithReason(apperr.ErrInvalid, "recorded_at is in the future")
		}
		loc.RecordedAt = req.RecordedAt.UTC()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		t, err := tx.GetTruckForUpdate(ctx, loc.TruckID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.WithReason(apperr.ErrNotFound, "Truck not found")
		}
		if err := tx.InsertTruckLocation(ctx, &loc); err != nil {
			return err
		}
		return tx.UpdateTruckPosition(ctx, loc)
	})
	if err != nil {
		return domain.TruckLocation{}, err
	}

	s.logger.Debug("truck location recorded",
		logx.String("event", "truck_location_recorded"),
		logx.String("truck_id", loc.TruckID),
		logx.Float64("lat", loc.Latitude),
		logx.Float64("lng", loc.Longitude),
	)
	s.publish(ctx, realtime.NewEvent(realtime.TopicTruckTracking, "truck_locations", realtime.EventInsert,
		realtime.LocationRecord(loc), s.now()))
	return loc, nil
}

// UpdateStatus changes a truck's status. Only trip scheduling assigns a truck, and a truck
// bound to an active trip keeps its status until the trip ends. Maintenance raises an alert.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, req StatusRequest) (domain.Truck, error) {
	if actor.Role != domain.RoleSupervisor && actor.Role != domain.RoleAdmin {
		return domain.Truck{}, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}
	req.TruckID = strings.TrimSpace(req.TruckID)
	if req.TruckID == "" {
		return domain.Truck{}, apperr.WithReason(apperr.ErrInvalid, "truck_id is required")
	}
	if !req.Status.Valid() {
		return domain.Truck{}, apperr.WithReason(apperr.ErrInvalid, "Invalid status")
	}
	if req.Status == domain.TruckAssigned {
		return domain.Truck{}, apperr.WithReason(apperr.ErrInvalid, "Trucks are assigned by scheduling a trip")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var before, after domain.Truck
	err := s.repo.WithTx(ctx, func(tx fleettx.Repository) error {
		t, err := tx.GetTruckForUpdate(ctx, req.TruckID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.WithReason(apperr.ErrNotFound, "Truck not found")
		}
		busy, err := tx.HasActiveTrip(ctx, t.ID)
		if err != nil {
			return err
		}
		if busy {
			return apperr.WithReason(apperr.ErrConflict, "Truck is assigned to an active trip")
		}
		if err := tx.UpdateTruckStatus(ctx, t.ID, req.Status); err != nil {
			return err
		}
		before = *t
		after = *t
		after.Status = req.Status
		return nil
	})
	if err != nil {
		return domain.Truck{}, err
	}

	s.logger.Info("truck status updated",
		logx.String("event", "truck_status_updated"),
		logx.String("truck_id", after.ID),
		logx.String("from", string(before.Status)),
		logx.String("to", string(after.Status)),
		logx.String("actor", actor.UserID),
	)

	now := s.now()
	ev := realtime.NewEvent(realtime.TopicTruckTracking, "trucks", realtime.EventUpdate, realtime.TruckRecord(after), now)
	ev.OldRecord = realtime.TruckRecord(before)
	events := []realtime.ChangeEvent{ev}
	if after.Status == domain.TruckMaintenance && before.Status != domain.TruckMaintenance {
		rec := realtime.TruckRecord(after)
		rec["reason"] = req.Reason
		events = append(events,
			realtime.NewEvent(realtime.TopicMaintenanceAlerts, "trucks", realtime.EventUpdate, rec, now))
	}
	s.publish(ctx, events...)
	return after, nil
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
				logx.Err(err),
			)
		}
	}
}
