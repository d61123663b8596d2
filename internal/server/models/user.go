// Package models defines server-side rows persisted in the database.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// VerificationCode is the single outstanding email code for an address.
type VerificationCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}
