package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}
	if strings.Contains(hash, "correct horse") {
		t.Error("hash must not contain the plaintext")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("correct password should verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword(hash, "") {
		t.Error("empty password should not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestVerifyGarbageHash(t *testing.T) {
	if VerifyPassword("not-a-hash", "anything") {
		t.Error("garbage hash should never verify")
	}
}
