package domain

import "github.com/google/uuid"

// ValidID reports whether id is a canonical UUID, the form of every entity key.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
