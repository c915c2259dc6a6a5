package security

import (
	"Lokiz/internal/api/config"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	Init(config.JWTConfig{Secret: "unit-test-secret", ExpireMinutes: 5, Issuer: "lokiz-test"})

	token, err := GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 5*time.Minute {
		t.Fatalf("ttl = %v, want 5m", ttl)
	}

	sig, err := ExtractSignature(token)
	if err != nil || sig == "" {
		t.Fatalf("ExtractSignature: %q %v", sig, err)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	Init(config.JWTConfig{Secret: "first-secret", Issuer: "lokiz-test"})
	token, err := GenerateToken(1, "user")
	if err != nil {
		t.Fatal(err)
	}

	Init(config.JWTConfig{Secret: "second-secret", Issuer: "lokiz-test"})
	if _, err = ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}

func TestExtractSignatureMalformed(t *testing.T) {
	for _, in := range []string{"", "a.b", "a.b.", "abc"} {
		if _, err := ExtractSignature(in); err == nil {
			t.Errorf("ExtractSignature(%q) should fail", in)
		}
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if err = CheckPasswordHash("s3cret!", hash); err != nil {
		t.Fatalf("matching password rejected: %v", err)
	}
	if err = CheckPasswordHash("wrong", hash); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err = HashPassword(""); err == nil {
		t.Fatal("empty password must be rejected")
	}
}

func TestPasswordTooLong(t *testing.T) {
	long := strings.Repeat("x", 73)
	if _, err := HashPassword(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("got %v", err)
	}
	hash, _ := HashPassword(long[:72])
	if err := CheckPasswordHash(long, hash); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("overlong password must not match its truncated prefix: %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	Init(config.JWTConfig{Secret: "expiry-secret", Issuer: "lokiz-test"})
	past := time.Now().Add(-time.Hour)
	claims := &UserClaims{
		UserID: 5,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lokiz-test",
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("expiry-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
	if _, err = ValidateToken("garbage"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}
