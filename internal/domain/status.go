package domain

import (
	"regexp"
	"strings"
)

// List of profile roles
const (
	RoleDriver     Role = "driver"
	RoleSupervisor Role = "supervisor"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// List of profile statuses
const (
	ProfileActive    ProfileStatus = "active"
	ProfileSuspended ProfileStatus = "suspended"
	ProfileInactive  ProfileStatus = "inactive"
)

// List of truck statuses
const (
	TruckAvailable   TruckStatus = "available"
	TruckAssigned    TruckStatus = "assigned"
	TruckMaintenance TruckStatus = "maintenance"
	TruckInactive    TruckStatus = "inactive"
)

// List of trip statuses
const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
	TripDelayed    TripStatus = "delayed"
)

// List of trip priorities
const (
	PriorityLow    TripPriority = "low"
	PriorityMedium TripPriority = "medium"
	PriorityHigh   TripPriority = "high"
)

// List of payment providers
const (
	ProviderPaystack    Provider = "paystack"
	ProviderFlutterwave Provider = "flutterwave"
	ProviderStripe      Provider = "stripe"
)

// List of payment statuses
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// List of payment purposes
const (
	PurposeTrip         PaymentPurpose = "trip"
	PurposeSubscription PaymentPurpose = "subscription"
)

// List of notification types
const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationTrip    NotificationType = "trip"
	NotificationPayment NotificationType = "payment"
)

// List of verification types
const (
	VerificationBVN            VerificationType = "bvn"
	VerificationNIN            VerificationType = "nin"
	VerificationDriversLicense VerificationType = "drivers_license"
	VerificationVehicle        VerificationType = "vehicle"
	VerificationTIN            VerificationType = "tin"
)

// List of verification statuses
const (
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
)

var allowedRoles = [...]Role{RoleDriver, RoleSupervisor, RoleContractor, RoleAdmin}

var allowedTruckStatuses = [...]TruckStatus{TruckAvailable, TruckAssigned, TruckMaintenance, TruckInactive}

var allowedTripStatuses = [...]TripStatus{TripScheduled, TripInProgress, TripCompleted, TripCancelled, TripDelayed}

var allowedProviders = [...]Provider{ProviderPaystack, ProviderFlutterwave, ProviderStripe}

var allowedNotificationTypes = [...]NotificationType{
	NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError, NotificationTrip, NotificationPayment,
}

var allowedVerificationTypes = [...]VerificationType{
	VerificationBVN, VerificationNIN, VerificationDriversLicense, VerificationVehicle, VerificationTIN,
}

// Valid checks if the Role is known
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}

// CanManageTrips reports whether the role may create and update any trip.
func (r Role) CanManageTrips() bool {
	return r == RoleSupervisor || r == RoleAdmin || r == RoleContractor
}

// CanViewPayments reports whether the role receives payment feeds.
func (r Role) CanViewPayments() bool {
	return r.CanManageTrips()
}

// Valid checks if the TruckStatus is known
func (s TruckStatus) Valid() bool {
	for _, v := range allowedTruckStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the TripStatus is known
func (s TripStatus) Valid() bool {
	for _, v := range allowedTripStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the trip and frees its truck.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// Valid checks if the TripPriority is known
func (p TripPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Multiplier returns the pricing multiplier of the priority.
func (p TripPriority) Multiplier() float64 {
	switch p {
	case PriorityHigh:
		return 1.5
	case PriorityLow:
		return 0.8
	default:
		return 1
	}
}

// ParseProvider converts a raw provider name into a Provider.
func ParseProvider(raw string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	for _, v := range allowedProviders {
		if p == v {
			return p, true
		}
	}
	return "", false
}

// Providers returns every supported payment provider.
func Providers() []Provider {
	return allowedProviders[:]
}

// Valid checks if the NotificationType is known
func (t NotificationType) Valid() bool {
	for _, v := range allowedNotificationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the VerificationType is known
func (t VerificationType) Valid() bool {
	for _, v := range allowedVerificationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Level returns the profile verification level granted by a successful check of this type.
func (t VerificationType) Level() int {
	if t == VerificationBVN {
		return 2
	}
	return 1
}

var reElevenDigits = regexp.MustCompile(`^[0-9]{11}$`)

// ValidateElevenDigits validates BVN and NIN numbers.
func ValidateElevenDigits(s string) bool {
	return reElevenDigits.MatchString(s)
}

var rePhone = regexp.MustCompile(`^\+?[0-9]{10,14}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
