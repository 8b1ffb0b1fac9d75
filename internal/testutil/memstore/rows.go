package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

// GetProfile returns (nil, nil) when the profile does not exist.
func (s *Store) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetProfile"); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, nil
	}
	p, ok := s.st.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListProfilesByRole returns active profiles having role.
func (s *Store) ListProfilesByRole(_ context.Context, role domain.Role) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListProfilesByRole"); err != nil {
		return nil, err
	}
	var out []domain.Profile
	for _, p := range s.st.profiles {
		if p.Role == role && p.Status == domain.ProfileActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsertProfile stores a new profile.
func (s *Store) InsertProfile(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertProfile"); err != nil {
		return err
	}
	for _, ex := range s.st.profiles {
		if ex.Email == p.Email {
			return apperr.ErrConflict
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.ProfileActive
	}
	p.CreatedAt, p.UpdatedAt = s.Now(), s.Now()
	s.st.profiles[p.ID] = *p
	return nil
}

// MarkProfileVerified flips is_verified on the first successful verification only.
func (s *Store) MarkProfileVerified(_ context.Context, userID string, level int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("MarkProfileVerified"); err != nil {
		return false, err
	}
	if !domain.ValidID(userID) {
		return false, nil
	}
	p, ok := s.st.profiles[userID]
	if !ok || p.IsVerified {
		return false, nil
	}
	p.IsVerified = true
	p.VerificationLevel = level
	p.UpdatedAt = s.Now()
	s.st.profiles[userID] = p
	return true, nil
}

// GetTruck returns (nil, nil) when the truck does not exist.
func (s *Store) GetTruck(_ context.Context, id string) (*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTruck"); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, ok := s.st.trucks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetTruckForUpdate behaves like GetTruck; transactions are serialized.
func (s *Store) GetTruckForUpdate(_ context.Context, id string) (*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTruckForUpdate"); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, ok := s.st.trucks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// ListTrucks returns trucks ordered by plate number.
func (s *Store) ListTrucks(_ context.Context, status domain.TruckStatus) ([]domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListTrucks"); err != nil {
		return nil, err
	}
	var out []domain.Truck
	for _, t := range s.st.trucks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlateNumber < out[j].PlateNumber })
	return out, nil
}

// InsertTruck stores a new truck.
func (s *Store) InsertTruck(_ context.Context, t *domain.Truck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertTruck"); err != nil {
		return err
	}
	for _, ex := range s.st.trucks {
		if ex.PlateNumber == t.PlateNumber {
			return apperr.ErrConflict
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TruckAvailable
	}
	t.CreatedAt, t.UpdatedAt = s.Now(), s.Now()
	s.st.trucks[t.ID] = *t
	return nil
}

// UpdateTruckStatus sets the truck status.
func (s *Store) UpdateTruckStatus(_ context.Context, id string, status domain.TruckStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTruckStatus"); err != nil {
		return err
	}
	if !domain.ValidID(id) {
		return errNotFound("truck", id)
	}
	t, ok := s.st.trucks[id]
	if !ok {
		return errNotFound("truck", id)
	}
	t.Status = status
	t.UpdatedAt = s.Now()
	s.st.trucks[id] = t
	return nil
}

// InsertTruckLocation appends to the location log.
func (s *Store) InsertTruckLocation(_ context.Context, loc *domain.TruckLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertTruckLocation"); err != nil {
		return err
	}
	if !domain.ValidID(loc.TruckID) {
		return errNotFound("truck", loc.TruckID)
	}
	if _, ok := s.st.trucks[loc.TruckID]; !ok {
		return errNotFound("truck", loc.TruckID)
	}
	s.seq++
	loc.ID = s.seq
	s.st.locations = append(s.st.locations, *loc)
	return nil
}

// UpdateTruckPosition mirrors loc into the truck unless a newer position is already stored.
func (s *Store) UpdateTruckPosition(_ context.Context, loc domain.TruckLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTruckPosition"); err != nil {
		return err
	}
	t, ok := s.st.trucks[loc.TruckID]
	if !ok {
		return nil
	}
	if t.LastLocationAt != nil && t.LastLocationAt.After(loc.RecordedAt) {
		return nil
	}
	lat, lng, at := loc.Latitude, loc.Longitude, loc.RecordedAt
	t.CurrentLatitude, t.CurrentLongitude = &lat, &lng
	t.CurrentSpeed, t.CurrentHeading = loc.Speed, loc.Heading
	t.LastLocationAt = &at
	t.UpdatedAt = s.Now()
	s.st.trucks[t.ID] = t
	return nil
}

// HasActiveTrip reports whether the truck is bound to a non-terminal trip.
func (s *Store) HasActiveTrip(_ context.Context, truckID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("HasActiveTrip"); err != nil {
		return false, err
	}
	if !domain.ValidID(truckID) {
		return false, nil
	}
	for _, t := range s.st.trips {
		if t.TruckID == truckID && s.isActiveTrip(t) {
			return true, nil
		}
	}
	return false, nil
}

// LatestLocations returns the newest location of every truck.
func (s *Store) LatestLocations(_ context.Context) ([]domain.TruckLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LatestLocations"); err != nil {
		return nil, err
	}
	latest := map[string]domain.TruckLocation{}
	for _, l := range s.st.locations {
		if cur, ok := latest[l.TruckID]; !ok || l.RecordedAt.After(cur.RecordedAt) {
			latest[l.TruckID] = l
		}
	}
	out := make([]domain.TruckLocation, 0, len(latest))
	for _, l := range latest {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TruckID < out[j].TruckID })
	return out, nil
}

// LocationHistory returns the newest locations of one truck, newest first.
func (s *Store) LocationHistory(_ context.Context, truckID string, limit int) ([]domain.TruckLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LocationHistory"); err != nil {
		return nil, err
	}
	if !domain.ValidID(truckID) {
		return nil, nil
	}
	var out []domain.TruckLocation
	for _, l := range s.st.locations {
		if l.TruckID == truckID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountTrucksByStatus returns the number of trucks per status.
func (s *Store) CountTrucksByStatus(_ context.Context) (map[domain.TruckStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountTrucksByStatus"); err != nil {
		return nil, err
	}
	out := map[domain.TruckStatus]int{}
	for _, t := range s.st.trucks {
		out[t.Status]++
	}
	return out, nil
}

// InsertTrip stores a trip. Malformed and unknown references fail like the database
// foreign keys; an empty customer is stored as NULL.
func (s *Store) InsertTrip(_ context.Context, t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertTrip"); err != nil {
		return err
	}
	if _, ok := s.st.trucks[t.TruckID]; !ok || !domain.ValidID(t.TruckID) {
		return apperr.WithReason(apperr.ErrNotFound, "Truck not found")
	}
	if _, ok := s.st.profiles[t.DriverID]; !ok || !domain.ValidID(t.DriverID) {
		return apperr.WithReason(apperr.ErrNotFound, "Driver not found")
	}
	if t.CustomerID != "" {
		if _, ok := s.st.profiles[t.CustomerID]; !ok || !domain.ValidID(t.CustomerID) {
			return apperr.WithReason(apperr.ErrNotFound, "Customer not found")
		}
	}
	if t.CreatedBy != "" && !domain.ValidID(t.CreatedBy) {
		return fmt.Errorf("trip creator %s: %w", t.CreatedBy, apperr.ErrInvalid)
	}
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = s.Now(), s.Now()
	s.st.trips[t.ID] = *t
	return nil
}

// GetTrip returns (nil, nil) when the trip does not exist.
func (s *Store) GetTrip(_ context.Context, id string) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTrip"); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, ok := s.st.trips[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetTripForUpdate behaves like GetTrip; transactions are serialized.
func (s *Store) GetTripForUpdate(_ context.Context, id string) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTripForUpdate"); err != nil {
		return nil, err
	}
	if !domain.ValidID(id) {
		return nil, nil
	}
	t, ok := s.st.trips[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// UpdateTrip writes the mutable lifecycle fields of a trip.
func (s *Store) UpdateTrip(_ context.Context, t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTrip"); err != nil {
		return err
	}
	if !domain.ValidID(t.ID) {
		return errNotFound("trip", t.ID)
	}
	cur, ok := s.st.trips[t.ID]
	if !ok {
		return errNotFound("trip", t.ID)
	}
	cur.Status = t.Status
	cur.ActualPickup, cur.ActualDelivery = t.ActualPickup, t.ActualDelivery
	cur.StartedAt, cur.CompletedAt, cur.CancelledAt = t.StartedAt, t.CompletedAt, t.CancelledAt
	cur.Notes = t.Notes
	cur.UpdatedAt = s.Now()
	t.UpdatedAt = cur.UpdatedAt
	s.st.trips[t.ID] = cur
	return nil
}

func tripMatches(t domain.Trip, f domain.TripFilter) bool {
	for _, id := range []string{f.DriverID, f.CustomerID, f.CreatedBy, f.TruckID} {
		if id != "" && !domain.ValidID(id) {
			return false
		}
	}
	switch {
	case f.DriverID != "" && t.DriverID != f.DriverID:
		return false
	case f.CustomerID != "" && t.CustomerID != f.CustomerID:
		return false
	case f.CreatedBy != "" && t.CreatedBy != f.CreatedBy:
		return false
	case f.TruckID != "" && t.TruckID != f.TruckID:
		return false
	case f.Status != "" && t.Status != f.Status:
		return false
	}
	return true
}

// ListTrips returns trips ordered by creation time, newest first.
func (s *Store) ListTrips(_ context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListTrips"); err != nil {
		return nil, err
	}
	out := make([]domain.Trip, 0)
	for _, t := range s.st.trips {
		if tripMatches(t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset != nil {
		if *f.Offset >= len(out) {
			out = out[:0]
		} else {
			out = out[*f.Offset:]
		}
	}
	if f.Limit != nil && *f.Limit < len(out) {
		out = out[:*f.Limit]
	}
	return out, nil
}

// TripStats aggregates the trips matching f.
func (s *Store) TripStats(_ context.Context, f domain.TripFilter) (domain.TripStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("TripStats"); err != nil {
		return domain.TripStats{}, err
	}
	st := domain.TripStats{ByStatus: map[domain.TripStatus]int{}}
	for _, t := range s.st.trips {
		if !tripMatches(t, f) {
			continue
		}
		st.ByStatus[t.Status]++
		st.Total++
		if t.Status != domain.TripCompleted {
			continue
		}
		st.Completed++
		st.CompletedValue += t.EstimatedCost
		if t.ScheduledDelivery == nil || (t.ActualDelivery != nil && !t.ActualDelivery.After(*t.ScheduledDelivery)) {
			st.CompletedOnTime++
		}
	}
	return st, nil
}

// InsertPayment stores a payment; (provider, reference) is unique.
func (s *Store) InsertPayment(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertPayment"); err != nil {
		return err
	}
	if !domain.ValidID(p.UserID) {
		return errNotFound("payment user", p.UserID)
	}
	if p.TripID != nil && !domain.ValidID(*p.TripID) {
		return apperr.WithReason(apperr.ErrNotFound, "Trip not found")
	}
	key := payKey(p.Provider, p.Reference)
	if _, ok := s.st.payments[key]; ok {
		return apperr.ErrConflict
	}
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = s.Now(), s.Now()
	cp := *p
	cp.Metadata = cloneMap(p.Metadata)
	s.st.payments[key] = cp
	return nil
}

// GetPaymentByReference returns (nil, nil) when the payment does not exist.
func (s *Store) GetPaymentByReference(_ context.Context, provider domain.Provider, reference string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetPaymentByReference"); err != nil {
		return nil, err
	}
	p, ok := s.st.payments[payKey(provider, reference)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpdatePaymentResult writes the verified outcome of a payment.
func (s *Store) UpdatePaymentResult(_ context.Context, provider domain.Provider, reference string,
	status domain.PaymentStatus, amount float64, paidAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdatePaymentResult"); err != nil {
		return false, err
	}
	key := payKey(provider, reference)
	p, ok := s.st.payments[key]
	if !ok {
		return false, nil
	}
	p.Status = status
	if amount > 0 {
		p.Amount = amount
	}
	if p.PaidAt == nil && paidAt != nil {
		at := *paidAt
		p.PaidAt = &at
	}
	p.UpdatedAt = s.Now()
	s.st.payments[key] = p
	return true, nil
}

// ListPayments returns the payments of a user (all users when userID is empty), newest first.
func (s *Store) ListPayments(_ context.Context, userID string, limit int) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListPayments"); err != nil {
		return nil, err
	}
	var out []domain.Payment
	for _, p := range s.st.payments {
		if userID == "" || p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SumCompletedPayments totals completed payments per currency.
func (s *Store) SumCompletedPayments(_ context.Context, userID string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SumCompletedPayments"); err != nil {
		return nil, err
	}
	out := map[string]float64{}
	for _, p := range s.st.payments {
		if p.Status == domain.PaymentCompleted && (userID == "" || p.UserID == userID) {
			out[p.Currency] += p.Amount
		}
	}
	return out, nil
}

// InsertNotification stores a notification for an existing profile.
func (s *Store) InsertNotification(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertNotification"); err != nil {
		return err
	}
	if _, ok := s.st.profiles[n.UserID]; !ok || !domain.ValidID(n.UserID) {
		return apperr.WithReason(apperr.ErrNotFound, "Recipient not found")
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	n.ID = uuid.NewString()
	s.seq++
	n.CreatedAt = s.Now().Add(time.Duration(s.seq))
	cp := *n
	cp.Data = cloneMap(n.Data)
	s.st.notifications[n.ID] = cp
	return nil
}

// ListNotifications returns the newest notifications of a user.
func (s *Store) ListNotifications(_ context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListNotifications"); err != nil {
		return nil, err
	}
	if !domain.ValidID(userID) {
		return nil, nil
	}
	var out []domain.Notification
	for _, n := range s.st.notifications {
		if n.UserID != userID || (unreadOnly && n.ReadAt != nil) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkNotificationRead sets read_at once; it reports whether the notification belongs to userID.
func (s *Store) MarkNotificationRead(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("MarkNotificationRead"); err != nil {
		return false, err
	}
	if !domain.ValidID(id) || !domain.ValidID(userID) {
		return false, nil
	}
	n, ok := s.st.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	if n.ReadAt == nil {
		at := s.Now()
		n.ReadAt = &at
		s.st.notifications[id] = n
	}
	return true, nil
}

// InsertVerification records a verification attempt.
func (s *Store) InsertVerification(_ context.Context, v *domain.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertVerification"); err != nil {
		return err
	}
	if !domain.ValidID(v.UserID) {
		return errNotFound("verification user", v.UserID)
	}
	v.ID = uuid.NewString()
	s.seq++
	v.CreatedAt = s.Now().Add(time.Duration(s.seq))
	if len(v.Payload) == 0 {
		v.Payload = []byte("{}")
	}
	s.st.verifications = append(s.st.verifications, *v)
	return nil
}

// ListVerifications returns the verification attempts of a user, newest first.
func (s *Store) ListVerifications(_ context.Context, userID string) ([]domain.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListVerifications"); err != nil {
		return nil, err
	}
	if !domain.ValidID(userID) {
		return nil, nil
	}
	var out []domain.Verification
	for _, v := range s.st.verifications {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpsertSubscription stores a subscription keyed by its Stripe id.
func (s *Store) UpsertSubscription(_ context.Context, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpsertSubscription"); err != nil {
		return err
	}
	cur, ok := s.st.subscriptions[sub.StripeSubscriptionID]
	if ok {
		cur.Status = sub.Status
		if sub.CurrentPeriodEnd != nil {
			cur.CurrentPeriodEnd = sub.CurrentPeriodEnd
		}
		cur.UpdatedAt = s.Now()
		*sub = cur
	} else {
		sub.ID = uuid.NewString()
		sub.CreatedAt, sub.UpdatedAt = s.Now(), s.Now()
		cur = *sub
	}
	s.st.subscriptions[sub.StripeSubscriptionID] = cur
	return nil
}

// UpdateSubscriptionStatus updates a known subscription; it reports whether a row matched.
func (s *Store) UpdateSubscriptionStatus(_ context.Context, stripeID, status string, periodEnd *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateSubscriptionStatus"); err != nil {
		return false, err
	}
	cur, ok := s.st.subscriptions[stripeID]
	if !ok {
		return false, nil
	}
	cur.Status = status
	if periodEnd != nil {
		cur.CurrentPeriodEnd = periodEnd
	}
	cur.UpdatedAt = s.Now()
	s.st.subscriptions[stripeID] = cur
	return true, nil
}

// Apply marks the schema as applied.
func (s *Store) Apply(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Apply"); err != nil {
		return err
	}
	s.st.schemaApplied = true
	return nil
}

// TableStatus reports every table as present once the schema is applied.
func (s *Store) TableStatus(_ context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("TableStatus"); err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for _, name := range Tables {
		out[name] = s.st.schemaApplied
	}
	return out, nil
}

// CountAdmins returns the number of admin profiles.
func (s *Store) CountAdmins(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountAdmins"); err != nil {
		return 0, err
	}
	n := 0
	for _, p := range s.st.profiles {
		if p.Role == domain.RoleAdmin {
			n++
		}
	}
	return n, nil
}

// PromoteToAdmin creates or promotes the profile to the admin role.
func (s *Store) PromoteToAdmin(_ context.Context, userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("PromoteToAdmin"); err != nil {
		return err
	}
	if !domain.ValidID(userID) {
		return fmt.Errorf("promote %s: %w", userID, apperr.ErrInvalid)
	}
	p, ok := s.st.profiles[userID]
	if !ok {
		p = domain.Profile{ID: userID, Email: email, Status: domain.ProfileActive, CreatedAt: s.Now()}
	}
	p.Role = domain.RoleAdmin
	p.UpdatedAt = s.Now()
	s.st.profiles[userID] = p
	return nil
}

// Tables mirrors the schema table list.
var Tables = []string{
	"profiles", "trucks", "truck_locations", "trips",
	"payments", "notifications", "verifications", "subscriptions",
}
