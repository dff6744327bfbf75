package utils

import (
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "alice", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != RoleUser {
		t.Errorf("claims = %+v, want user 42/alice/%s", claims, RoleUser)
	}
}

func TestTokenCarriesRole(t *testing.T) {
	token, err := GenerateToken(1, "root", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(1, "alice", RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken(1, "alice", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in clear")
	}

	if !CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}

func TestSessionRevocation(t *testing.T) {
	token, err := GenerateToken(7, "alice", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if IsSessionRevoked(token) {
		t.Fatal("fresh token already revoked")
	}
	RevokeSession(token, time.Now().Add(time.Hour))
	if !IsSessionRevoked(token) {
		t.Error("revoked token still accepted")
	}
}
