package models

import "time"

// Session is a server-side session record keyed by the token's unique id.
// Expiry is absolute from creation, not sliding.
type Session struct {
	ID       string
	Username string
	Expires  time.Time
}
