package domain

import "time"

// NotificationType classifies a notification.
type NotificationType string

// Notification is a message addressed to one profile.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}
