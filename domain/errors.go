package domain

import "errors"

// Account errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUsernameTaken        = errors.New("username is already registered")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrAccountMisconfigured = errors.New("account has no usable credential")
	ErrDisposableEmail      = errors.New("disposable email addresses are not allowed")
)

// Password-reset errors
var (
	ErrResetSessionInvalid  = errors.New("invalid or expired reset session")
	ErrResetSessionExpired  = errors.New("reset session has expired")
	ErrResetAlreadyVerified = errors.New("reset session already verified")
	ErrResetNotVerified     = errors.New("reset session not yet verified")
	ErrResetCodeInvalid     = errors.New("invalid verification code")
	ErrWeakPassword         = errors.New("password does not meet strength requirements")
	ErrUpstreamUnavailable  = errors.New("verification provider unavailable")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Token and session errors
var (
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("malformed token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)
