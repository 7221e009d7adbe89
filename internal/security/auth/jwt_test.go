package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "natalcore")
	token, err := tm.GenerateToken("ws-1", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.WorkspaceID != "ws-1" || claims.UserID != "user-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "natalcore").GenerateToken("ws-1", "u", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("secret-b", "natalcore").ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", "natalcore")
	token, err := tm.GenerateToken("ws-1", "u", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestTokenRequiresWorkspace(t *testing.T) {
	tm := NewTokenManager("secret", "natalcore")
	if _, err := tm.GenerateToken("", "u", time.Hour); err == nil {
		t.Fatal("workspace is mandatory")
	}
}

func TestExtractToken(t *testing.T) {
	if _, err := ExtractToken("Basic abc"); err == nil {
		t.Error("non-bearer header must be rejected")
	}
	got, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil || got != "abc.def.ghi" {
		t.Errorf("got %q, %v", got, err)
	}
}
