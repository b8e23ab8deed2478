package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("CheckPasswordHash() rejected the right password")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("CheckPasswordHash() accepted a wrong password")
	}
	if CheckPasswordHash("s3cret", "not-a-hash") {
		t.Error("CheckPasswordHash() accepted a malformed hash")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := issuer.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Username != "admin" || claims.Subject != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	other, _ := NewTokenIssuer("other-secret", time.Hour)
	foreign, _ := other.GenerateToken("admin")

	expiredIssuer, _ := NewTokenIssuer("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.GenerateToken("admin")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.ParseToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Error("NewTokenIssuer(\"\") should fail")
	}
}
