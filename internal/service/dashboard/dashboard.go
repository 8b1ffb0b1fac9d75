// Package dashboard composes the per-role read models served by GET /api/dashboard.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/format"
	"fleet-platform/internal/logx"
)

// TripCurrency is the currency of estimated trip costs.
const TripCurrency = "NGN"

const recentTrips = 5

// Amount is a money total with its display form.
type Amount struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
	Display  string  `json:"display"`
}

// TripSummary aggregates the trips visible to the caller.
type TripSummary struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	Active          int            `json:"active"`
	Completed       int            `json:"completed"`
	CompletedOnTime int            `json:"completed_on_time"`
	SLA             int            `json:"sla"`
	SLADisplay      string         `json:"sla_display"`
	CompletedValue  Amount         `json:"completed_value"`
}

// FleetSummary counts trucks per status.
type FleetSummary struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	Utilisation int            `json:"utilisation"`
}

// TripRow is a formatted trip line.
type TripRow struct {
	ID              string `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	Distance        string `json:"distance"`
	Duration        string `json:"duration"`
	Cost            string `json:"cost"`
	ScheduledPickup string `json:"scheduled_pickup"`
	Updated         string `json:"updated"`
}

// View is the dashboard of one caller. Sections that do not apply to the role are omitted.
type View struct {
	Role        domain.Role   `json:"role"`
	GeneratedAt time.Time     `json:"generated_at"`
	Trips       TripSummary   `json:"trips"`
	Fleet       *FleetSummary `json:"fleet,omitempty"`
	Revenue     []Amount      `json:"revenue,omitempty"`
	Spend       []Amount      `json:"spend,omitempty"`
	Recent      []TripRow     `json:"recent_trips"`
}

// Service builds dashboards.
type Service struct {
	repo             repository
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates a new dashboard Service.
func NewService(repo repository, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		repo:             repo,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Build returns the dashboard of actor. Drivers see their own trips, contractors the trips they
// created and their spend, supervisors and admins the whole fleet and revenue.
func (s *Service) Build(ctx context.Context, actor domain.Actor) (View, error) {
	if actor.IsZero() {
		return View{}, apperr.ErrUnauthorized
	}
	var scope domain.TripFilter
	switch actor.Role {
	case domain.RoleDriver:
		scope.DriverID = actor.UserID
	case domain.RoleContractor:
		scope.CreatedBy = actor.UserID
	case domain.RoleSupervisor, domain.RoleAdmin:
	default:
		return View{}, apperr.WithReason(apperr.ErrForbidden, "Insufficient permissions")
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	now := s.now()
	view := View{Role: actor.Role, GeneratedAt: now}

	stats, err := s.repo.TripStats(ctx, scope)
	if err != nil {
		return View{}, fmt.Errorf("trip stats: %w", err)
	}
	view.Trips = summarize(stats)

	limit := recentTrips
	recentScope := scope
	recentScope.Limit = &limit
	trips, err := s.repo.ListTrips(ctx, recentScope)
	if err != nil {
		return View{}, fmt.Errorf("recent trips: %w", err)
	}
	view.Recent = make([]TripRow, 0, len(trips))
	for _, t := range trips {
		view.Recent = append(view.Recent, tripRow(t, now))
	}

	switch actor.Role {
	case domain.RoleSupervisor, domain.RoleAdmin:
		counts, err := s.repo.CountTrucksByStatus(ctx)
		if err != nil {
			return View{}, fmt.Errorf("fleet counts: %w", err)
		}
		view.Fleet = fleet(counts)
		totals, err := s.repo.SumCompletedPayments(ctx, "")
		if err != nil {
			return View{}, fmt.Errorf("revenue: %w", err)
		}
		view.Revenue = amounts(totals)
	case domain.RoleContractor:
		totals, err := s.repo.SumCompletedPayments(ctx, actor.UserID)
		if err != nil {
			return View{}, fmt.Errorf("spend: %w", err)
		}
		view.Spend = amounts(totals)
	}

	s.logger.Debug("dashboard built",
		logx.String("event", "dashboard_built"),
		logx.String("user_id", actor.UserID),
		logx.String("role", string(actor.Role)),
		logx.Int("trips", view.Trips.Total),
	)
	return view, nil
}

func summarize(st domain.TripStats) TripSummary {
	out := TripSummary{
		Total:           st.Total,
		ByStatus:        make(map[string]int, len(st.ByStatus)),
		Completed:       st.Completed,
		CompletedOnTime: st.CompletedOnTime,
		SLA:             format.CalculateSLA(st.CompletedOnTime, st.Completed),
		CompletedValue: Amount{
			Currency: TripCurrency,
			Total:    st.CompletedValue,
			Display:  format.FormatCurrency(st.CompletedValue, TripCurrency),
		},
	}
	for status, n := range st.ByStatus {
		out.ByStatus[string(status)] = n
		if status == domain.TripScheduled || status == domain.TripInProgress || status == domain.TripDelayed {
			out.Active += n
		}
	}
	out.SLADisplay = fmt.Sprintf("%d%%", out.SLA)
	return out
}

func fleet(counts map[domain.TruckStatus]int) *FleetSummary {
	out := &FleetSummary{ByStatus: make(map[string]int, len(counts))}
	for status, n := range counts {
		out.ByStatus[string(status)] = n
		out.Total += n
	}
	inService := out.Total - counts[domain.TruckInactive]
	if inService > 0 {
		out.Utilisation = format.CalculateSLA(counts[domain.TruckAssigned], inService)
	}
	return out
}

func amounts(totals map[string]float64) []Amount {
	out := make([]Amount, 0, len(totals))
	for cur, total := range totals {
		out = append(out, Amount{Currency: cur, Total: total, Display: format.FormatCurrency(total, cur)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

func tripRow(t domain.Trip, now time.Time) TripRow {
	row := TripRow{
		ID:          t.ID,
		Origin:      t.Origin,
		Destination: t.Destination,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Distance:    format.FormatDistance(t.EstimatedDistance),
		Duration:    format.FormatDuration(t.EstimatedDuration),
		Cost:        format.FormatCurrency(t.EstimatedCost, TripCurrency),
		Updated:     format.FormatRelative(t.UpdatedAt, now),
	}
	if t.ScheduledPickup != nil {
		row.ScheduledPickup = format.FormatDateTime(*t.ScheduledPickup)
	} else {
		row.ScheduledPickup = "-"
	}
	return row
}
