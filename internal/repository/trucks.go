package repository

import (
	"context"
	"fmt"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

const truckColumns = `id, plate_number, model, capacity, status, current_latitude, current_longitude,
    current_speed, current_heading, last_location_at, created_at, updated_at`

func scanTruck(row interface{ Scan(...any) error }) (domain.Truck, error) {
	var t domain.Truck
	err := row.Scan(&t.ID, &t.PlateNumber, &t.Model, &t.Capacity, &t.Status,
		&t.CurrentLatitude, &t.CurrentLongitude, &t.CurrentSpeed, &t.CurrentHeading,
		&t.LastLocationAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// GetTruck - returns truck by its ID.
func (r *queries) GetTruck(ctx context.Context, id string) (*domain.Truck, error) {
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, err := scanTruck(r.q.QueryRow(ctx, `SELECT `+truckColumns+` FROM trucks WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get truck %s: %w", id, err)
	}
	return &t, nil
}

// GetTruckForUpdate - returns truck by its ID and locks the row.
func (r *queries) GetTruckForUpdate(ctx context.Context, id string) (*domain.Truck, error) {
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, err := scanTruck(r.q.QueryRow(ctx, `SELECT `+truckColumns+` FROM trucks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get truck %s for update: %w", id, err)
	}
	return &t, nil
}

// ListTrucks returns trucks ordered by plate number, optionally filtered by status.
func (r *queries) ListTrucks(ctx context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	q := `SELECT ` + truckColumns + ` FROM trucks`
	args := make([]any, 0, 1)
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY plate_number`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	defer rows.Close()

	var out []domain.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertTruck - creates a new truck and fills its ID.
func (r *queries) InsertTruck(ctx context.Context, t *domain.Truck) error {
	if t.Status == "" {
		t.Status = domain.TruckAvailable
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO trucks (plate_number, model, capacity, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `, t.PlateNumber, t.Model, t.Capacity, string(t.Status)).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert truck: %w", err)
	}
	return nil
}

// UpdateTruckStatus - update truck status.
func (r *queries) UpdateTruckStatus(ctx context.Context, id string, status domain.TruckStatus) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("truck %s: %w", id, apperr.ErrNotFound)
	}
	ct, err := r.q.Exec(ctx, `
        UPDATE trucks
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		if IsCheckViolation(err) {
			return apperr.WithReason(apperr.ErrInvalid, "Invalid truck status")
		}
		return fmt.Errorf("update truck status %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("truck %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// InsertTruckLocation appends a location to the truck's log.
func (r *queries) InsertTruckLocation(ctx context.Context, loc *domain.TruckLocation) error {
	if !domain.ValidID(loc.TruckID) {
		return fmt.Errorf("truck %s: %w", loc.TruckID, apperr.ErrNotFound)
	}
	err := r.q.QueryRow(ctx, `
        INSERT INTO truck_locations (truck_id, latitude, longitude, speed, heading, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, loc.TruckID, loc.Latitude, loc.Longitude, loc.Speed, loc.Heading, loc.RecordedAt).Scan(&loc.ID)
	if err != nil {
		if IsForeignKey(err) {
			return fmt.Errorf("truck %s: %w", loc.TruckID, apperr.ErrNotFound)
		}
		return fmt.Errorf("insert truck location: %w", err)
	}
	return nil
}

// UpdateTruckPosition mirrors a location into the truck's current position fields.
// Older locations than the one already mirrored are ignored.
func (r *queries) UpdateTruckPosition(ctx context.Context, loc domain.TruckLocation) error {
	if !domain.ValidID(loc.TruckID) {
		return nil
	}
	_, err := r.q.Exec(ctx, `
        UPDATE trucks
        SET current_latitude = $2, current_longitude = $3, current_speed = $4, current_heading = $5,
            last_location_at = $6, updated_at = now()
        WHERE id = $1 AND (last_location_at IS NULL OR last_location_at <= $6)
    `, loc.TruckID, loc.Latitude, loc.Longitude, loc.Speed, loc.Heading, loc.RecordedAt)
	if err != nil {
		return fmt.Errorf("update truck position %s: %w", loc.TruckID, err)
	}
	return nil
}

// HasActiveTrip reports whether the truck is bound to a non-terminal trip.
func (r *queries) HasActiveTrip(ctx context.Context, truckID string) (bool, error) {
	if !domain.ValidID(truckID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM trips
            WHERE truck_id = $1 AND status IN ('scheduled', 'in_progress', 'delayed')
        )
    `, truckID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("active trip of truck %s: %w", truckID, err)
	}
	return exists, nil
}

// LatestLocations returns the newest location of every truck.
func (r *queries) LatestLocations(ctx context.Context) ([]domain.TruckLocation, error) {
	return r.listLocations(ctx, `
        SELECT DISTINCT ON (truck_id) id, truck_id, latitude, longitude, speed, heading, recorded_at
        FROM truck_locations
        ORDER BY truck_id, recorded_at DESC
    `)
}

// LocationHistory returns the newest locations of one truck, newest first.
func (r *queries) LocationHistory(ctx context.Context, truckID string, limit int) ([]domain.TruckLocation, error) {
	if !domain.ValidID(truckID) {
		return nil, nil
	}
	return r.listLocations(ctx, `
        SELECT id, truck_id, latitude, longitude, speed, heading, recorded_at
        FROM truck_locations
        WHERE truck_id = $1
        ORDER BY recorded_at DESC
        LIMIT $2
    `, truckID, limit)
}

func (r *queries) listLocations(ctx context.Context, q string, args ...any) ([]domain.TruckLocation, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list truck locations: %w", err)
	}
	defer rows.Close()

	var out []domain.TruckLocation
	for rows.Next() {
		var l domain.TruckLocation
		if err := rows.Scan(&l.ID, &l.TruckID, &l.Latitude, &l.Longitude, &l.Speed, &l.Heading, &l.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountTrucksByStatus returns the number of trucks per status.
func (r *queries) CountTrucksByStatus(ctx context.Context) (map[domain.TruckStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, count(*) FROM trucks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count trucks: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.TruckStatus]int)
	for rows.Next() {
		var (
			s domain.TruckStatus
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
