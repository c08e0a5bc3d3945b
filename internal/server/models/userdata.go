package models

import "time"

// UserData is the single encrypted payload row a user may own.
// Ciphertext is a self-contained AEAD blob (nonce included).
type UserData struct {
	Username   string
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
