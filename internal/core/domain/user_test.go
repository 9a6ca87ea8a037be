package domain

import (
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Should create user with normalized email", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("owner-1", "  Runner.Girl@Mail.COM  ")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.Email != "runner.girl@mail.com" {
			t.Errorf("Expected normalized email, got %s", user.Email)
		}
		if user.ID != "owner-1" {
			t.Errorf("Expected id owner-1, got %s", user.ID)
		}
		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("owner-1", "not-an-email")

		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password and bump UpdatedAt", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("owner-1", "quit@sugar.io")
		before := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		if err := user.SetPassword("noMoreSoda42"); err != nil {
			t.Fatalf("Expected no error setting password, got %v", err)
		}
		if user.PasswordHash == "noMoreSoda42" || user.PasswordHash == "" {
			t.Error("Password should be stored as a hash")
		}
		if !user.UpdatedAt.After(before) {
			t.Error("UpdatedAt should move forward after setting password")
		}
	})

	t.Run("Should reject short passwords", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("owner-1", "quit@sugar.io")

		if err := user.SetPassword("short"); err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("CheckPassword maps mismatches to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("owner-1", "quit@sugar.io")
		_ = user.SetPassword("correctPassword")

		if err := user.CheckPassword("correctPassword"); err != nil {
			t.Errorf("Expected password to match, got %v", err)
		}
		if err := user.CheckPassword("wrongPassword"); err != ErrInvalidCredentials {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}
