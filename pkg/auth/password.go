package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost       = 12
	ResetTokenLength = 32 // 256 bits of entropy
	MinPasswordLen   = 8
	MaxPasswordLen   = 72 // bcrypt input limit
)

// HashPassword hashes a plaintext password with bcrypt. Each call produces a
// unique salt, so the same password never hashes to the same value twice.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword verifies a plaintext password against a stored hash using
// bcrypt's own constant-time compare. Returns nil on match.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateResetToken produces a random reset token. The raw value goes to the
// user exactly once; only the sha256 hash is ever persisted.
func GenerateResetToken() (raw string, hash string, err error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	raw = hex.EncodeToString(bytes)
	return raw, HashResetToken(raw), nil
}

// HashResetToken returns the hex-encoded sha256 of a raw reset token, the
// form in which reset tokens are stored and looked up.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword enforces the password length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	return nil
}
