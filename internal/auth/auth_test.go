package auth

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-123", "secret", 1)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.Subject)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-123", "secret", 1)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := ValidateJWT(token, "other-secret"); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", "secret"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("hunter2", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password should not verify")
	}
}
