package domain

import (
	"encoding/json"
	"time"
)

type (
	// VerificationType is the kind of identity document checked.
	VerificationType string
	// VerificationStatus is the outcome of one verification attempt.
	VerificationStatus string
)

// Verification is the record of one verification attempt.
type Verification struct {
	ID         string
	UserID     string
	Type       VerificationType
	Status     VerificationStatus
	Payload    json.RawMessage
	VerifiedAt *time.Time
	CreatedAt  time.Time
}
