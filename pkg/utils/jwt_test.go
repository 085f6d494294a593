package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", 15*time.Minute, 168*time.Hour)

	token, err := GenerateAccessToken(42, "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Role != "staff" {
		t.Errorf("claims = (%d, %s), want (42, staff)", claims.UserID, claims.Role)
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", 15*time.Minute, 168*time.Hour)

	if _, err := ValidateAccessToken("not.a.token"); err == nil {
		t.Error("ValidateAccessToken() accepted garbage")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	InitJWT("test-secret", -time.Minute, 168*time.Hour)

	token, err := GenerateAccessToken(1, "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("ValidateAccessToken() accepted an expired token")
	}
}
