package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("VerifyPassword must reject a wrong password")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("empty password must be rejected")
	}
	if err := VerifyPassword("", "x"); err == nil {
		t.Fatal("empty hash must be rejected")
	}
}

func TestConstantTimeEqual(t *testing.T) {
	if !ConstantTimeEqual("code-123", "code-123") {
		t.Fatal("equal secrets must match")
	}
	if ConstantTimeEqual("code-123", "code-124") {
		t.Fatal("different secrets must not match")
	}
	if ConstantTimeEqual("short", "longer-secret") {
		t.Fatal("different lengths must not match")
	}
}
