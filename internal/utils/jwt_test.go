package utils

import (
	"testing"
	"time"
)

func TestNewAccessTokenRoundTrips(t *testing.T) {
	before := time.Now().UTC()
	tok, err := NewAccessToken("secret", 42, "CUSTOMER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if tok.Token == "" {
		t.Error("expected a non-empty signed token")
	}
	if tok.Exp.Before(before.Add(14*time.Minute)) || tok.Exp.After(before.Add(16*time.Minute)) {
		t.Errorf("expiry %v should be roughly 15 minutes after %v", tok.Exp, before)
	}
}

func TestHashRefreshRawIsDeterministicAndDistinct(t *testing.T) {
	h1 := HashRefreshRaw("abc")
	h2 := HashRefreshRaw("abc")
	h3 := HashRefreshRaw("xyz")
	if h1 != h2 {
		t.Error("HashRefreshRaw should be deterministic for the same input")
	}
	if h1 == h3 {
		t.Error("HashRefreshRaw should differ for different input")
	}
}

func TestNewRefreshTokenIsUnique(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens should not collide")
	}
}
