package auth

import (
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"letmein":     {},
	"welcome1":    {},
	"admin123":    {},
	"iloveyou":    {},
	"nurse123":    {},
}

// PasswordPolicy validates new passwords before they are hashed.
type PasswordPolicy struct {
	MinLength int
}

// Validate returns a VALIDATION_FAILED error listing every unmet rule.
func (p PasswordPolicy) Validate(password string) error {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = 8
	}

	var problems []string
	if len([]rune(password)) < minLength {
		problems = append(problems, "too_short")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		problems = append(problems, "missing_uppercase")
	}
	if !lower {
		problems = append(problems, "missing_lowercase")
	}
	if !digit {
		problems = append(problems, "missing_number")
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		problems = append(problems, "too_common")
	}

	if len(problems) > 0 {
		return apperrors.NewValidationError("password does not meet requirements", map[string]any{
			"password":   problems,
			"min_length": minLength,
		})
	}
	return nil
}
