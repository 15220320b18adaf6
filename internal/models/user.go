package models

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGuide, RoleLeadGuide:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

type User struct {
	ID           string
	Email        string // stored lowercased
	Name         string
	Photo        string
	Role         Role
	PasswordHash string // never serialized to clients

	// Stamped on every password change (with a 1s safety margin) so tokens
	// issued before the change fail validation afterwards.
	PasswordChangedAt *time.Time

	// Only the sha256 of the reset token is persisted, never the raw value.
	PasswordResetToken     *string
	PasswordResetExpiresAt *time.Time

	Active    bool // soft delete: false means excluded from normal queries
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Comparison is at second granularity to match the
// resolution of JWT iat claims.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// HasResetToken reports whether a live (unexpired) reset token is stored.
func (u *User) HasResetToken(now time.Time) bool {
	return u.PasswordResetToken != nil &&
		u.PasswordResetExpiresAt != nil &&
		u.PasswordResetExpiresAt.After(now)
}
