package repository

// nullUUID binds an optional reference: empty means NULL.
func nullUUID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
