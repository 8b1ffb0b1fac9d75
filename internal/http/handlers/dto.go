package handlers

import (
	"encoding/json"
	"time"
)

type tripDTO struct {
	ID                string     `json:"id"`
	TruckID           string     `json:"truck_id"`
	DriverID          string     `json:"driver_id"`
	CustomerID        string     `json:"customer_id,omitempty"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	CargoType         string     `json:"cargo_type,omitempty"`
	CargoWeight       float64    `json:"cargo_weight,omitempty"`
	CargoDescription  string     `json:"cargo_description,omitempty"`
	EstimatedDistance float64    `json:"estimated_distance"`
	EstimatedDuration float64    `json:"estimated_duration"`
	EstimatedCost     float64    `json:"estimated_cost"`
	ScheduledPickup   *time.Time `json:"scheduled_pickup,omitempty"`
	ScheduledDelivery *time.Time `json:"scheduled_delivery,omitempty"`
	ActualPickup      *time.Time `json:"actual_pickup,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedBy         string     `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type createTripRequest struct {
	TruckID           string     `json:"truck_id"`
	DriverID          string     `json:"driver_id"`
	CustomerID        string     `json:"customer_id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	ScheduledPickup   *time.Time `json:"scheduled_pickup"`
	ScheduledDelivery *time.Time `json:"scheduled_delivery"`
	Priority          string     `json:"priority"`
	CargoType         string     `json:"cargo_type"`
	CargoWeight       float64    `json:"cargo_weight"`
	CargoDescription  string     `json:"cargo_description"`
	Notes             string     `json:"notes"`
}

type updateTripRequest struct {
	TripID string  `json:"trip_id"`
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type truckDTO struct {
	ID               string     `json:"id"`
	PlateNumber      string     `json:"plate_number"`
	Model            string     `json:"model,omitempty"`
	Capacity         float64    `json:"capacity"`
	Status           string     `json:"status"`
	CurrentLatitude  *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude *float64   `json:"current_longitude,omitempty"`
	CurrentSpeed     *float64   `json:"current_speed,omitempty"`
	CurrentHeading   *float64   `json:"current_heading,omitempty"`
	LastLocationAt   *time.Time `json:"last_location_at,omitempty"`
}

type locationDTO struct {
	ID         int64     `json:"id"`
	TruckID    string    `json:"truck_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      *float64  `json:"speed,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type recordLocationRequest struct {
	TruckID    string     `json:"truck_id"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Speed      *float64   `json:"speed,omitempty"`
	Heading    *float64   `json:"heading,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

type truckStatusRequest struct {
	TruckID string `json:"truck_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

type notificationDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type sendNotificationRequest struct {
	UserIDs []string       `json:"user_ids,omitempty"`
	Role    string         `json:"role,omitempty"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type verifyRequest struct {
	Type   string            `json:"type"`
	Data   map[string]string `json:"data"`
	UserID string            `json:"user_id,omitempty"`
}

type verifyResponse struct {
	Success        bool            `json:"success"`
	VerificationID string          `json:"verification_id,omitempty"`
	Status         string          `json:"status"`
	Message        string          `json:"message,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	ProfileUpdated bool            `json:"profile_updated"`
}

type verificationDTO struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type createPaymentRequest struct {
	Provider    string         `json:"provider"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Description string         `json:"description,omitempty"`
	TripID      *string        `json:"trip_id,omitempty"`
	Purpose     string         `json:"purpose,omitempty"`
	Email       string         `json:"email,omitempty"`
	Name        string         `json:"name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initiationDTO struct {
	Provider         string `json:"provider"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
	ClientSecret     string `json:"client_secret,omitempty"`
}

type paymentResultDTO struct {
	Provider  string     `json:"provider"`
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type paymentDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	TripID      *string    `json:"trip_id,omitempty"`
	Provider    string     `json:"provider"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	Reference   string     `json:"reference"`
	Purpose     string     `json:"purpose"`
	Description string     `json:"description,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type subscriptionRequest struct {
	PriceID string `json:"price_id"`
}

type subscriptionDTO struct {
	SubscriptionID   string     `json:"subscription_id"`
	CustomerID       string     `json:"customer_id"`
	Status           string     `json:"status"`
	ClientSecret     string     `json:"client_secret,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
