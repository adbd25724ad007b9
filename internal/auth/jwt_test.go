package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret")

	token, err := svc.GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("Expected subject ops, got %s", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Errorf("Expected role admin, got %s", claims.Role)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewService("secret-a").GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	if _, err := NewService("secret-b").ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewService("test-secret")
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected garbage input to fail validation")
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewService("")
	if svc.Enabled() {
		t.Error("Expected empty secret to disable the service")
	}
	if _, err := svc.ValidateToken("anything"); err == nil {
		t.Error("Expected validation to fail when disabled")
	}
}
