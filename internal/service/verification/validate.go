package verification

import (
	"regexp"
	"strings"
	"time"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
)

var (
	rePlate = regexp.MustCompile(`^[A-Z0-9-]{5,12}$`)
	reTIN   = regexp.MustCompile(`^[0-9][0-9-]{6,14}[0-9]$`)
	reName  = regexp.MustCompile(`^[\p{L}' -]{2,64}$`)
)

func invalid(reason string) error { return apperr.WithReason(apperr.ErrInvalid, reason) }

// normalize validates the fields required by typ and returns the provider payload.
func normalize(typ domain.VerificationType, data map[string]string, now time.Time) (map[string]string, error) {
	get := func(key string) string { return strings.TrimSpace(data[key]) }
	number := get("number")

	switch typ {
	case domain.VerificationBVN:
		if !domain.ValidateElevenDigits(number) {
			return nil, invalid("BVN must be 11 digits")
		}
		return map[string]string{"number": number}, nil

	case domain.VerificationNIN:
		if !domain.ValidateElevenDigits(number) {
			return nil, invalid("NIN must be 11 digits")
		}
		return map[string]string{"number": number}, nil

	case domain.VerificationDriversLicense:
		first, last, dob := get("first_name"), get("last_name"), get("dob")
		if number == "" {
			return nil, invalid("License number is required")
		}
		if !reName.MatchString(first) || !reName.MatchString(last) {
			return nil, invalid("First and last name are required")
		}
		born, err := time.Parse(time.DateOnly, dob)
		if err != nil || !born.Before(now) {
			return nil, invalid("Date of birth must be YYYY-MM-DD")
		}
		return map[string]string{
			"number":     strings.ToUpper(number),
			"first_name": first,
			"last_name":  last,
			"dob":        dob,
		}, nil

	case domain.VerificationVehicle:
		plate := strings.ToUpper(strings.ReplaceAll(number, " ", ""))
		if !rePlate.MatchString(plate) {
			return nil, invalid("Invalid plate number")
		}
		return map[string]string{"vehicle_number": plate}, nil

	case domain.VerificationTIN:
		if !reTIN.MatchString(number) {
			return nil, invalid("Invalid TIN")
		}
		return map[string]string{"number": number, "channel": "TIN"}, nil
	}
	return nil, invalid("Unsupported verification type")
}

// mask hides all but the last four characters of identifying numbers.
func mask(payload map[string]string) map[string]string {
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		if (k == "number" || k == "vehicle_number") && len(v) > 4 {
			v = strings.Repeat("*", len(v)-4) + v[len(v)-4:]
		}
		out[k] = v
	}
	return out
}
