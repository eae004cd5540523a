package models

import "time"

// User represents a registered user account.
//
// Users are created once and never updated or deleted.
type User struct {
	// ID is the sequentially assigned identifier.
	ID int64 `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the time the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a user model with the given credentials.
// The ID is assigned by the store.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
