package domain

import "time"

// Credential holds a user's password hash plus a reserved slot for a
// future zero-knowledge-proof credential. ZKP is always nil today.
type Credential struct {
	Hash string
	ZKP  *string
}

// ResetSession binds an email address to one in-flight password-reset
// flow. At most one lives on a user record at a time; a new reset
// request replaces any previous session.
type ResetSession struct {
	ID         string
	Email      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Verified   bool
	VerifiedAt *time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *ResetSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// User represents an account in the credential store. Username and
// Email are stored lowercase and are unique across the collection.
type User struct {
	ID              string
	Username        string
	Name            string
	Email           string
	Credential      Credential
	CreatedAt       time.Time
	LastLogin       time.Time
	UsernameChanges int
	PasswordsUsed   int
	PasswordsMax    int
	ResetSession    *ResetSession
}

// Profile is the client-safe projection of a User. The credential
// never leaves the server.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastLogin time.Time `json:"lastLogin"`
}

// Profile returns the non-sensitive fields of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		LastLogin: u.LastLogin,
	}
}

// Session is a server-side login session backing an issued token.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthResult represents a successful login.
type AuthResult struct {
	User      *User
	Token     string
	SessionID string
	ExpiresIn int64
}

// Availability answers whether a username or email is free to register.
type Availability struct {
	Available bool
	Reason    string
}

// TokenClaims are the claims carried by a login session token.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
