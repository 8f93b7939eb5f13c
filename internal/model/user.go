// Package model defines domain entities for the application.
package model

import "time"

// User is an account that owns contacts.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	Name         string    `json:"name"`
	TokenHash    *string   `json:"-"` // Digest of the current session token, nil when logged out
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsLoggedIn returns true if the user currently holds a session token.
func (u *User) IsLoggedIn() bool {
	return u.TokenHash != nil && *u.TokenHash != ""
}

// Session is the result of a successful login.
// Token is the plaintext value and is only available at issue time.
type Session struct {
	User  *User
	Token string
}
