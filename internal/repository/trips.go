package repository

import (
	"context"
	"fmt"
	"strings"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

const tripColumns = `id, truck_id, driver_id, customer_id, origin, destination,
    scheduled_pickup, scheduled_delivery, actual_pickup, actual_delivery,
    started_at, completed_at, cancelled_at, status, priority,
    cargo_type, cargo_weight, cargo_description,
    estimated_distance, estimated_duration, estimated_cost, notes, created_by, created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (domain.Trip, error) {
	var (
		t          domain.Trip
		customerID *string
		createdBy  *string
	)
	err := row.Scan(&t.ID, &t.TruckID, &t.DriverID, &customerID, &t.Origin, &t.Destination,
		&t.ScheduledPickup, &t.ScheduledDelivery, &t.ActualPickup, &t.ActualDelivery,
		&t.StartedAt, &t.CompletedAt, &t.CancelledAt, &t.Status, &t.Priority,
		&t.Cargo.Type, &t.Cargo.Weight, &t.Cargo.Description,
		&t.EstimatedDistance, &t.EstimatedDuration, &t.EstimatedCost, &t.Notes, &createdBy,
		&t.CreatedAt, &t.UpdatedAt)
	if customerID != nil {
		t.CustomerID = *customerID
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return t, err
}

// InsertTrip - insert a new trip and fill its ID. An empty customer is stored as NULL.
func (r *queries) InsertTrip(ctx context.Context, t *domain.Trip) error {
	switch {
	case !domain.ValidID(t.TruckID):
		return apperr.WithReason(apperr.ErrNotFound, "Truck not found")
	case !domain.ValidID(t.DriverID):
		return apperr.WithReason(apperr.ErrNotFound, "Driver not found")
	case t.CustomerID != "" && !domain.ValidID(t.CustomerID):
		return apperr.WithReason(apperr.ErrNotFound, "Customer not found")
	case t.CreatedBy != "" && !domain.ValidID(t.CreatedBy):
		return fmt.Errorf("trip creator %s: %w", t.CreatedBy, apperr.ErrInvalid)
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO trips (truck_id, driver_id, customer_id, origin, destination,
            scheduled_pickup, scheduled_delivery, status, priority,
            cargo_type, cargo_weight, cargo_description,
            estimated_distance, estimated_duration, estimated_cost, notes, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id, created_at, updated_at
    `, t.TruckID, t.DriverID, nullUUID(t.CustomerID), t.Origin, t.Destination,
		t.ScheduledPickup, t.ScheduledDelivery, string(t.Status), string(t.Priority),
		t.Cargo.Type, t.Cargo.Weight, t.Cargo.Description,
		t.EstimatedDistance, t.EstimatedDuration, t.EstimatedCost, t.Notes, nullUUID(t.CreatedBy),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if IsForeignKey(err) {
			return apperr.WithReason(apperr.ErrNotFound, "Customer not found")
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// GetTrip - returns trip by its ID.
func (r *queries) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, err := scanTrip(r.q.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return &t, nil
}

// GetTripForUpdate - returns trip by its ID and locks the row.
func (r *queries) GetTripForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, err := scanTrip(r.q.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trip %s for update: %w", id, err)
	}
	return &t, nil
}

// UpdateTrip writes the mutable lifecycle fields of a trip.
func (r *queries) UpdateTrip(ctx context.Context, t *domain.Trip) error {
	if !domain.ValidID(t.ID) {
		return fmt.Errorf("trip %s: %w", t.ID, apperr.ErrNotFound)
	}
	err := r.q.QueryRow(ctx, `
        UPDATE trips
        SET status = $2, actual_pickup = $3, actual_delivery = $4,
            started_at = $5, completed_at = $6, cancelled_at = $7, notes = $8, updated_at = now()
        WHERE id = $1
        RETURNING updated_at
    `, t.ID, string(t.Status), t.ActualPickup, t.ActualDelivery,
		t.StartedAt, t.CompletedAt, t.CancelledAt, t.Notes).Scan(&t.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("trip %s: %w", t.ID, apperr.ErrNotFound)
		}
		if IsCheckViolation(err) {
			return apperr.WithReason(apperr.ErrInvalid, "Invalid trip status")
		}
		return fmt.Errorf("update trip %s: %w", t.ID, err)
	}
	return nil
}

func tripWhere(f domain.TripFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	addID := func(col, v string) {
		if v != "" && !domain.ValidID(v) {
			conds = append(conds, "false")
			return
		}
		add(col, v)
	}
	addID("driver_id", f.DriverID)
	addID("customer_id", f.CustomerID)
	addID("created_by", f.CreatedBy)
	addID("truck_id", f.TruckID)
	add("status", string(f.Status))
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListTrips returns trips ordered by creation time, newest first.
func (r *queries) ListTrips(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	where, args := tripWhere(f)
	q := `SELECT ` + tripColumns + ` FROM trips` + where + ` ORDER BY created_at DESC`
	if f.Limit != nil {
		args = append(args, *f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset != nil {
		args = append(args, *f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	capacity := 0
	if f.Limit != nil && *f.Limit > 0 {
		capacity = *f.Limit
	}
	out := make([]domain.Trip, 0, capacity)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TripStats aggregates the trips matching f. A completed trip is on time when it was delivered
// no later than its scheduled delivery, or had no schedule.
func (r *queries) TripStats(ctx context.Context, f domain.TripFilter) (domain.TripStats, error) {
	where, args := tripWhere(f)
	rows, err := r.q.Query(ctx, `
        SELECT status,
               count(*),
               count(*) FILTER (WHERE status = 'completed'
                   AND (scheduled_delivery IS NULL OR actual_delivery <= scheduled_delivery)),
               COALESCE(sum(estimated_cost) FILTER (WHERE status = 'completed'), 0)
        FROM trips`+where+`
        GROUP BY status
    `, args...)
	if err != nil {
		return domain.TripStats{}, fmt.Errorf("trip stats: %w", err)
	}
	defer rows.Close()

	st := domain.TripStats{ByStatus: make(map[domain.TripStatus]int)}
	for rows.Next() {
		var (
			status domain.TripStatus
			n      int
			onTime int
			value  float64
		)
		if err := rows.Scan(&status, &n, &onTime, &value); err != nil {
			return domain.TripStats{}, err
		}
		st.ByStatus[status] = n
		st.Total += n
		st.CompletedOnTime += onTime
		st.CompletedValue += value
		if status == domain.TripCompleted {
			st.Completed = n
		}
	}
	return st, rows.Err()
}
