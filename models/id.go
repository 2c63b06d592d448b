package models

import "github.com/google/uuid"

// NewID generates a client-side identifier for optimistically created
// records. UUIDv7 keeps ids time-ordered; falls back to v4 if the monotonic
// source fails.
func NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
