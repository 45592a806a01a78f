package models

import "time"

// User is an account row. Name and Email are optional and empty when unset;
// PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           string
	Name         string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
