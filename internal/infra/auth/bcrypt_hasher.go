// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"ratehub/config"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/service"
)

// Words that must not appear anywhere in a password, case-insensitively.
var forbiddenWords = []string{"password", "admin", "qwerty", "123456", "letmein"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

func defaultPolicy() config.PasswordStrengthConfig {
	return config.PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        72, // bcrypt truncates beyond 72 bytes.
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	}
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	policy := defaultPolicy()
	if cfg != nil && cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
		if policy.MaxLength <= 0 {
			policy.MaxLength = defaultPolicy().MaxLength
		}
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength verifies a plaintext password against the
// configured policy. Failures carry the specific requirement that was missed.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < h.policy.MinLength {
		return domainerrors.ErrPasswordStrength.WithDetails("password must be at least " +
			strconv.Itoa(h.policy.MinLength) + " characters long")
	}
	if len(password) > h.policy.MaxLength {
		return domainerrors.ErrPasswordStrength.WithDetails("password must be at most " +
			strconv.Itoa(h.policy.MaxLength) + " characters long")
	}
	if h.policy.RequireUppercase && !hasUppercase(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain an uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLowercase(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain a lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumbers(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain a number")
	}
	if h.policy.RequireSpecial && !hasSpecialChars(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain a special character")
	}
	if word, found := containsForbiddenWord(password); found {
		return domainerrors.ErrPasswordForbiddenWords.WithDetails("password must not contain " + word)
	}

	return nil
}

func hasUppercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func hasLowercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLower)
}

func hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func hasSpecialChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsForbiddenWord(password string) (string, bool) {
	lowered := strings.ToLower(password)
	for _, word := range forbiddenWords {
		if strings.Contains(lowered, word) {
			return word, true
		}
	}

	return "", false
}
