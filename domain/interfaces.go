package domain

import (
	"context"
	"time"
)

// UserRepository defines credential-store access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, userID string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByIdentifier matches the identifier against username OR email.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	// SetResetSession stores the session on the user record; a nil
	// session clears any existing one.
	SetResetSession(ctx context.Context, email string, session *ResetSession) error
	// MarkResetVerified flips verified false->true for the matching
	// unexpired session. Returns ErrResetSessionInvalid when no
	// document matches the transition.
	MarkResetVerified(ctx context.Context, email, sessionID string, at time.Time) error
	// CompletePasswordReset replaces the password hash, bumps the
	// password-use counter, stamps last-login and deletes the session
	// sub-document in one atomic update against a verified, unexpired
	// session. Returns ErrResetSessionInvalid when no document matches.
	CompletePasswordReset(ctx context.Context, email, sessionID, passwordHash string, at time.Time) error
}

// SessionRepository defines login-session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AccountService defines registration, login and availability checks.
type AccountService interface {
	Register(ctx context.Context, username, name, email, password string) (*User, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	CheckUsername(ctx context.Context, username string) (*Availability, error)
	CheckEmail(ctx context.Context, email string) (*Availability, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
}

// ResetService drives the password-reset state machine:
// REQUESTED -> CODE_SENT -> CODE_VERIFIED -> COMPLETED.
type ResetService interface {
	// Request returns (nil, ErrUserNotFound) for unknown emails so the
	// handler can answer with the anti-enumeration body.
	Request(ctx context.Context, email string) (*ResetSession, error)
	VerifyCode(ctx context.Context, email, sessionID, code string) error
	Complete(ctx context.Context, email, sessionID, newPassword string) error
}

// VerificationProvider dispatches and checks one-time codes for a
// reset flow. Implementations: local Redis OTP store plus email
// dispatch, or Twilio Verify.
type VerificationProvider interface {
	Start(ctx context.Context, email string) error
	Check(ctx context.Context, email, code string) (bool, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService issues and validates login session tokens.
type TokenService interface {
	Generate(userID, username, sessionID string) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationService delivers messages to users.
type NotificationService interface {
	SendEmail(to, subject, body string) error
}

// DisposableEmailChecker consults an external service for throwaway
// email domains. Lookup failures must never block signup.
type DisposableEmailChecker interface {
	IsDisposable(ctx context.Context, email string) (bool, error)
}
