// Package models holds the server-side database models.
package models

import "time"

// User is a server account. PasswordHash is a bcrypt hash and never leaves
// the server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
