package auth

import (
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected an error for a wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}
