package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	minPasswordLength = 8
	minPasswordScore  = 2
)

// PasswordValidationError represents a single password policy violation.
type PasswordValidationError struct {
	Code    string
	Message string
}

// Error implements error for PasswordValidationError.
func (e *PasswordValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordValidator enforces a minimum length and a zxcvbn strength score.
type PasswordValidator struct {
	minLength int
	minScore  int
}

// DefaultPasswordValidator returns the validator applied to all registrations
// and password resets.
func DefaultPasswordValidator() *PasswordValidator {
	return &PasswordValidator{minLength: minPasswordLength, minScore: minPasswordScore}
}

// Validate returns the first policy violation, or nil.
func (v *PasswordValidator) Validate(password string, userInputs ...string) error {
	if v == nil {
		return fmt.Errorf("password validator not configured")
	}

	if len([]rune(password)) < v.minLength {
		return &PasswordValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("password must be at least %d characters long", v.minLength),
		}
	}

	// userInputs (email, username) penalize passwords built from the
	// account's own identifiers.
	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < v.minScore {
		return &PasswordValidationError{
			Code:    "weak_password",
			Message: "password is too easy to guess",
		}
	}

	return nil
}
