package entity

import "time"

// User is the aggregate root for the auth domain.
// Password holds a bcrypt hash, never plaintext, and is excluded from
// every API response.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
}
