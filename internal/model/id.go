package model

import "github.com/google/uuid"

// NewID returns a new time-ordered record ID (UUIDv7).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
