package domain

import "time"

type (
	// Role is the access role of a profile.
	Role string
	// ProfileStatus is the soft lifecycle status of a profile. Profiles are never hard-deleted.
	ProfileStatus string
)

// Profile is an application user.
type Profile struct {
	ID                string
	Email             string
	FullName          string
	Phone             string
	Role              Role
	Status            ProfileStatus
	IsVerified        bool
	VerificationLevel int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

// IsZero reports whether the actor carries no identity.
func (a Actor) IsZero() bool { return a.UserID == "" }
