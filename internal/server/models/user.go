// Package models defines server-side data models.
package models

import "time"

// User is an account row. PasswordHash is an opaque encoded hash that
// embeds the algorithm, iteration count, and per-user salt.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
