package models

import (
	"fmt"
	"time"
)

// SocialGoogle tags accounts created through Google sign-in.
const SocialGoogle = "google"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, case-sensitive as stored).
	// Used for login and to match the user against group invitees.
	Email string

	// DisplayName is the optional display name of the user.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for accounts that only sign in through a social provider.
	PasswordHash string

	// Social is the social-login provider tag (e.g., "google"), if any.
	Social string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a password-based user. The ID is assigned by the store.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewSocialUser creates a user that signs in through a federated provider
// and therefore has no password hash.
func NewSocialUser(email, displayName, provider string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if provider == "" {
		return nil, fmt.Errorf("%w: provider is required", ErrValidation)
	}
	user := NewUser(email, displayName, "")
	user.Social = provider
	return user, nil
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Sanitized returns a copy of the user with the password hash removed.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
