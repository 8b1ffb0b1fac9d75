package handlers

import (
	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/stripe"
	"fleet-platform/internal/ports/payments"
	"fleet-platform/internal/service/trip"
)

func (r createTripRequest) toModel() trip.CreateRequest {
	return trip.CreateRequest{
		TruckID:           r.TruckID,
		DriverID:          r.DriverID,
		CustomerID:        r.CustomerID,
		Origin:            r.Origin,
		Destination:       r.Destination,
		ScheduledPickup:   r.ScheduledPickup,
		ScheduledDelivery: r.ScheduledDelivery,
		Priority:          domain.TripPriority(r.Priority),
		Cargo: domain.Cargo{
			Type:        r.CargoType,
			Weight:      r.CargoWeight,
			Description: r.CargoDescription,
		},
		Notes: r.Notes,
	}
}

func (r updateTripRequest) toModel() domain.TripStatusUpdate {
	return domain.TripStatusUpdate{
		TripID: r.TripID,
		Status: domain.TripStatus(r.Status),
		Notes:  r.Notes,
	}
}

func tripToResponse(t domain.Trip) tripDTO {
	return tripDTO{
		ID:                t.ID,
		TruckID:           t.TruckID,
		DriverID:          t.DriverID,
		CustomerID:        t.CustomerID,
		Origin:            t.Origin,
		Destination:       t.Destination,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		CargoType:         t.Cargo.Type,
		CargoWeight:       t.Cargo.Weight,
		CargoDescription:  t.Cargo.Description,
		EstimatedDistance: t.EstimatedDistance,
		EstimatedDuration: t.EstimatedDuration,
		EstimatedCost:     t.EstimatedCost,
		ScheduledPickup:   t.ScheduledPickup,
		ScheduledDelivery: t.ScheduledDelivery,
		ActualPickup:      t.ActualPickup,
		ActualDelivery:    t.ActualDelivery,
		StartedAt:         t.StartedAt,
		CompletedAt:       t.CompletedAt,
		CancelledAt:       t.CancelledAt,
		Notes:             t.Notes,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func tripsToResponse(list []domain.Trip) []tripDTO {
	out := make([]tripDTO, 0, len(list))
	for _, t := range list {
		out = append(out, tripToResponse(t))
	}
	return out
}

func truckToResponse(t domain.Truck) truckDTO {
	return truckDTO{
		ID:               t.ID,
		PlateNumber:      t.PlateNumber,
		Model:            t.Model,
		Capacity:         t.Capacity,
		Status:           string(t.Status),
		CurrentLatitude:  t.CurrentLatitude,
		CurrentLongitude: t.CurrentLongitude,
		CurrentSpeed:     t.CurrentSpeed,
		CurrentHeading:   t.CurrentHeading,
		LastLocationAt:   t.LastLocationAt,
	}
}

func locationToResponse(l domain.TruckLocation) locationDTO {
	return locationDTO{
		ID:         l.ID,
		TruckID:    l.TruckID,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		Speed:      l.Speed,
		Heading:    l.Heading,
		RecordedAt: l.RecordedAt,
	}
}

func locationsToResponse(list []domain.TruckLocation) []locationDTO {
	out := make([]locationDTO, 0, len(list))
	for _, l := range list {
		out = append(out, locationToResponse(l))
	}
	return out
}

func notificationToResponse(n domain.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Data:      n.Data,
		Read:      n.ReadAt != nil,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func notificationsToResponse(list []domain.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, notificationToResponse(n))
	}
	return out
}

func verificationsToResponse(list []domain.Verification) []verificationDTO {
	out := make([]verificationDTO, 0, len(list))
	for _, v := range list {
		out = append(out, verificationDTO{
			ID:         v.ID,
			UserID:     v.UserID,
			Type:       string(v.Type),
			Status:     string(v.Status),
			Payload:    v.Payload,
			VerifiedAt: v.VerifiedAt,
			CreatedAt:  v.CreatedAt,
		})
	}
	return out
}

func initiationToResponse(in payments.Initiation) initiationDTO {
	return initiationDTO{
		Provider:         string(in.Provider),
		Reference:        in.Reference,
		AuthorizationURL: in.AuthorizationURL,
		ClientSecret:     in.ClientSecret,
	}
}

func resultToResponse(r payments.Result) paymentResultDTO {
	return paymentResultDTO{
		Provider:  string(r.Provider),
		Reference: r.Reference,
		Status:    string(r.Status),
		Amount:    r.Amount,
		Currency:  r.Currency,
		PaidAt:    r.PaidAt,
	}
}

func paymentsToResponse(list []domain.Payment) []paymentDTO {
	out := make([]paymentDTO, 0, len(list))
	for _, p := range list {
		out = append(out, paymentDTO{
			ID:          p.ID,
			UserID:      p.UserID,
			TripID:      p.TripID,
			Provider:    string(p.Provider),
			Amount:      p.Amount,
			Currency:    p.Currency,
			Status:      string(p.Status),
			Reference:   p.Reference,
			Purpose:     string(p.Purpose),
			Description: p.Description,
			PaidAt:      p.PaidAt,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}

func subscriptionToResponse(s stripe.SubscriptionStart) subscriptionDTO {
	return subscriptionDTO{
		SubscriptionID:   s.SubscriptionID,
		CustomerID:       s.CustomerID,
		Status:           s.Status,
		ClientSecret:     s.ClientSecret,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}
