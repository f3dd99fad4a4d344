package core

import "time"

// User is a registered account. The password hash never leaves the
// storage and auth layers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
