package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. It is the only model that holds
// credentials; everything else embeds Identity snapshots taken from it.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email is unique across users and doubles as the membership key
	// inside groups.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser builds a user with a fresh ID and creation time.
func NewUser(firstName, lastName, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// Identity is an immutable point-in-time copy of a user's display fields,
// embedded wherever an expense or group references a person so historical
// records stay stable even if the live user record changes later.
type Identity struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Snapshot copies the user's current display fields into an Identity.
func (u *User) Snapshot() Identity {
	return Identity{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
