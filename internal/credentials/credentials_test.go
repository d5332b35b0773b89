package credentials

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	if err := k.Set("bearer-abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	token, err := k.Token()
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	if token != "bearer-abc123" {
		t.Errorf("Token() = %q, want %q", token, "bearer-abc123")
	}
}

func TestSetEmptyToken(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	if err := k.Set(""); err == nil {
		t.Error("Set(\"\") should return an error")
	}
}

func TestTokenNotFound(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	_ = k.Clear()

	_, err := k.Token()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Token() error = %v, want %v", err, ErrNotFound)
	}
}

func TestClear(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	if err := k.Set("bearer-abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := k.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	_, err := k.Token()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("after Clear(), Token() error = %v, want %v", err, ErrNotFound)
	}
}

func TestClearNotFound(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	_ = k.Clear()

	if err := k.Clear(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Clear() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	k := NewKeyring()

	if !k.IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
