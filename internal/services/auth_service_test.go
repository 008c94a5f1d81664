package services

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash must not be the plaintext")
	}
	if err := svc.CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatal(err)
	}
	userID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a", time.Hour).GenerateToken(42)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAuthService("secret-b", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService("secret", -time.Minute)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("secret", time.Hour)
	if _, err := svc.ParseToken("not.a.jwt"); err == nil {
		t.Fatalf("garbage token must be rejected")
	}
}
