package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleHost grants standard event-host access.
	RoleHost Role = "host"
)

// User represents an authenticated account. A user either registers with
// email+password or is created lazily on first OTP verification, in which
// case PasswordHash stays empty and Phone is the login identity.
type User struct {
	Syncable
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Role         Role      `json:"role"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword returns true if the account can log in with a password.
// OTP-only accounts never get a password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Name returns the best available identifier to display for the user.
// Prefers the full name, falls back to email, then phone.
func (u *User) Name() string {
	if fullName := u.FullName(); fullName != "" {
		return fullName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
