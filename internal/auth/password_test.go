package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasscode(t *testing.T) {
	hash, err := HashPasscode("2580", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasscode failed: %v", err)
	}
	if hash == "2580" {
		t.Error("Hash should not equal the passcode")
	}

	if err := CheckPasscode("2580", hash); err != nil {
		t.Errorf("CheckPasscode should accept the right passcode: %v", err)
	}
	if err := CheckPasscode("0000", hash); !errors.Is(err, ErrInvalidPasscode) {
		t.Errorf("Expected ErrInvalidPasscode, got %v", err)
	}
}

func TestHashPasscode_Length(t *testing.T) {
	if _, err := HashPasscode("123", bcrypt.MinCost); !errors.Is(err, ErrPasscodeTooShort) {
		t.Errorf("Expected ErrPasscodeTooShort, got %v", err)
	}

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := HashPasscode(string(long), bcrypt.MinCost); !errors.Is(err, ErrPasscodeTooLong) {
		t.Errorf("Expected ErrPasscodeTooLong, got %v", err)
	}
}

func TestCheckPasscode_MalformedHash(t *testing.T) {
	err := CheckPasscode("2580", "not-a-hash")
	if err == nil || errors.Is(err, ErrInvalidPasscode) {
		t.Errorf("Expected a hash error, got %v", err)
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := GenerateSessionSecret()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateSessionSecret()

	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("Secrets should differ")
	}
}
