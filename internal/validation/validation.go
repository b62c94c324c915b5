// Package validation holds the stateless input predicates shared by
// the account and reset services.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MinUsernameLength is the shortest accepted username.
	MinUsernameLength = 3
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
	// MinStrengthScore is the lowest StrengthScore accepted for any
	// password-setting operation.
	MinStrengthScore = 3
	// ResetCodeLength is the length of a one-time reset code.
	ResetCodeLength = 6
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidUsername reports whether s is an acceptable username.
func ValidUsername(s string) bool {
	return len(strings.TrimSpace(s)) >= MinUsernameLength
}

// ValidResetCode reports whether s is a 6-digit one-time code.
func ValidResetCode(s string) bool {
	return codePattern.MatchString(s)
}

// StrengthScore rates a password 0-5: one point each for length >= 8,
// an uppercase letter, a lowercase letter, a digit and a symbol.
func StrengthScore(password string) int {
	score := 0
	if len(password) >= MinPasswordLength {
		score++
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if hasUpper {
		score++
	}
	if hasLower {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}

// AcceptablePassword reports whether a password clears the minimum
// length and strength bar.
func AcceptablePassword(password string) bool {
	return len(password) >= MinPasswordLength && StrengthScore(password) >= MinStrengthScore
}
