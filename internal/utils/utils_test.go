package utils

import (
	"strings"
	"testing"
)

func TestGenerateSessionHandle(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		handle, err := GenerateSessionHandle()
		if err != nil {
			t.Fatal(err)
		}
		if len(handle) != SessionHandleLength {
			t.Fatalf("handle %q has length %d, want %d", handle, len(handle), SessionHandleLength)
		}
		for _, r := range handle {
			if !strings.ContainsRune(handleAlphabet, r) {
				t.Fatalf("handle %q contains %q outside the alphabet", handle, r)
			}
		}
		if seen[handle] {
			t.Fatalf("handle %q repeated", handle)
		}
		seen[handle] = true
	}
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret([]byte("test-secret"))

	token, err := GenerateToken("a1", "alice")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.AccountID != "a1" || claims.Username != "alice" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	SetJWTSecret([]byte("test-secret"))
	token, err := GenerateToken("a1", "alice")
	if err != nil {
		t.Fatal(err)
	}

	SetJWTSecret([]byte("other-secret"))
	defer SetJWTSecret([]byte("test-secret"))

	if _, err := ValidateToken(token); err == nil {
		t.Fatal("token validated under the wrong secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	SetJWTSecret([]byte("test-secret"))
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatal("garbage token validated")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}
