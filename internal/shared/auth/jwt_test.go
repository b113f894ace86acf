package auth

import (
	"strings"
	"testing"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := NewJWT("my-secret-key")

	userID := int64(123)
	email := "test@example.com"

	token, err := j.Generate(userID, email)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Validate() got UserID %d, want %d", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("Validate() got Email %s, want %s", claims.Email, email)
	}
}

func TestJWT_TamperedToken(t *testing.T) {
	j := NewJWT("my-secret-key")

	token, err := j.Generate(1, "a@b.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "invalid-signature"
	if _, err := j.Validate(tampered); err == nil {
		t.Error("Validate() accepted tampered signature")
	}

	if _, err := j.Validate("invalid.token"); err == nil {
		t.Error("Validate() accepted invalid format")
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a").Generate(1, "a@b.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if _, err := NewJWT("secret-b").Validate(token); err == nil {
		t.Error("Validate() accepted token signed with a different secret")
	}
}
