package models

import "time"

// User is an account of the self-hosted auth backend.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the signed-in user as seen by the rest of the application,
// independent of which auth backend produced it.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
