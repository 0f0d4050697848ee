package auth

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/budget-tracker/internal"
)

const (
	MinPasswordLength = 8
	// bcrypt.GenerateFromPassword rejects longer input
	MaxPasswordBytes = 72
)

// ValidatePasswordStrength enforces length, a digit and an uppercase letter,
// reporting the first rule that fails.
func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return internal.NewBusinessRuleError("Password must be at least 8 characters long", internal.ErrCodeWeakPassword)
	}
	if len(password) > MaxPasswordBytes {
		return internal.NewBusinessRuleError("Password must be at most 72 bytes", internal.ErrCodeWeakPassword)
	}

	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}

	if !hasDigit {
		return internal.NewBusinessRuleError("Password must contain at least one number", internal.ErrCodeWeakPassword)
	}
	if !hasUpper {
		return internal.NewBusinessRuleError("Password must contain at least one uppercase letter", internal.ErrCodeWeakPassword)
	}
	return nil
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
