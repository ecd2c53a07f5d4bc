package domain

import "time"

// User represents an account keyed by the opaque client-held identifier.
// Registered users carry profile fields; anonymous users only the identifier.
type User struct {
	ID           string
	Name         string
	Handle       string
	Email        string
	IsRegistered bool
	CreatedAt    time.Time
}
