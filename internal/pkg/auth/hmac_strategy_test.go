package auth

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewHMACStrategyDefaults(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != defaultTokenTTL {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.now == nil {
		t.Fatal("expected default clock")
	}
}

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("unexpected token shape %q", token)
	}
	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestHMACStrategyRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour, Now: fixedClock(now)})
	valid, _ := strategy.IssueToken(7)
	other := NewHMACStrategy("other", Options{TTL: time.Hour, Now: fixedClock(now)})
	foreign, _ := other.IssueToken(7)

	signed := func(claims string) string { return claims + "." + strategy.sign(claims) }
	future := strconv.FormatInt(now.Add(time.Hour).Unix(), 10)

	cases := map[string]string{
		"empty":         "",
		"no separator":  "abc",
		"tampered id":   "8" + valid[1:],
		"foreign key":   foreign,
		"bad signature": valid[:strings.LastIndexByte(valid, '.')] + ".AAAA",
		"missing exp":   signed("7"),
		"bad user":      signed("abc." + future),
		"zero user":     signed("0." + future),
		"bad expiry":    signed("7.soon"),
		"expired":       signed("7." + strconv.FormatInt(now.Add(-time.Second).Unix(), 10)),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategyExpiresAfterTTL(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	clock := issued
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute, Now: func() time.Time { return clock }})
	token, _ := strategy.IssueToken(3)

	clock = issued.Add(59 * time.Second)
	if _, err := strategy.ParseToken(token); err != nil {
		t.Fatalf("expected token to be valid before expiry: %v", err)
	}
	clock = issued.Add(time.Minute)
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expiry at ttl, got %v", err)
	}
}
