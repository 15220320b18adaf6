package models

import (
	"testing"
	"time"
)

func TestHasResetToken(t *testing.T) {
	now := time.Now()
	token := "stored-hash"

	tests := []struct {
		name string
		user User
		want bool
	}{
		{
			name: "no token stored",
			user: User{},
			want: false,
		},
		{
			name: "token without expiry",
			user: User{PasswordResetToken: &token},
			want: false,
		},
		{
			name: "live token",
			user: User{
				PasswordResetToken:     &token,
				PasswordResetExpiresAt: ptrTime(now.Add(5 * time.Minute)),
			},
			want: true,
		},
		{
			name: "expired token",
			user: User{
				PasswordResetToken:     &token,
				PasswordResetExpiresAt: ptrTime(now.Add(-1 * time.Minute)),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.HasResetToken(now); got != tt.want {
				t.Errorf("HasResetToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChangedPasswordAfter(t *testing.T) {
	changed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	u := User{PasswordChangedAt: &changed}

	if !u.ChangedPasswordAfter(changed.Add(-2 * time.Second)) {
		t.Error("token issued before the change should be stale")
	}
	if u.ChangedPasswordAfter(changed) {
		t.Error("same-second issue time should not be stale")
	}
	if u.ChangedPasswordAfter(changed.Add(2 * time.Second)) {
		t.Error("token issued after the change should survive")
	}

	fresh := User{}
	if fresh.ChangedPasswordAfter(time.Now()) {
		t.Error("user without a password change should never be stale")
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
