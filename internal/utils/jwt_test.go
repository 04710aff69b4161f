package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if at.Token == "" {
		t.Fatal("empty token")
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tok.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, tok != nil && tok.Valid)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type %T", tok.Claims)
	}
	// Numeric claims decode as float64.
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "ADMIN" {
		t.Fatalf("role = %v, want ADMIN", claims["role"])
	}
	if exp, _ := claims["exp"].(float64); int64(exp) != at.Exp.Unix() {
		t.Fatalf("exp claim %v does not match returned expiry %v", claims["exp"], at.Exp.Unix())
	}
}

func TestNewAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret-a", 1, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && tok.Valid {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestNewRefreshToken(t *testing.T) {
	r1, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	r2, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(r1.Raw) != 96 {
		t.Fatalf("raw token length = %d, want 96 hex chars", len(r1.Raw))
	}
	if r1.Raw == r2.Raw {
		t.Fatal("two refresh tokens are identical")
	}
	wantExp := time.Now().UTC().Add(7 * 24 * time.Hour)
	if d := r1.Exp.Sub(wantExp); d < -time.Minute || d > time.Minute {
		t.Fatalf("expiry %v not ~7 days out", r1.Exp)
	}
}

func TestHashRefreshRawIsStable(t *testing.T) {
	h1 := HashRefreshRaw("token")
	h2 := HashRefreshRaw("token")
	if h1 != h2 {
		t.Fatal("hash is not deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("hash length = %d, want 64", len(h1))
	}
	if HashRefreshRaw("other") == h1 {
		t.Fatal("different inputs produced the same hash")
	}
}
