package utils

import (
	"testing"
	"time"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "textbook-assistant")

	pair, err := m.GenerateTokenPair("user-1", "student", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}

	claims, err := m.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q, want %q", claims.Role, "student")
	}
	if claims.Type != "access" {
		t.Errorf("Type = %q, want %q", claims.Type, "access")
	}
}

func TestJWTManagerExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "textbook-assistant")

	token, err := m.GenerateToken("user-1", "student", "access", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrExpiredToken {
		t.Errorf("ParseToken error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTManagerWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", "textbook-assistant")
	other := NewJWTManager("other-secret", "textbook-assistant")

	token, err := m.GenerateToken("user-1", "student", "access", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrInvalidToken {
		t.Errorf("ParseToken error = %v, want ErrInvalidToken", err)
	}
}
