package auth

import (
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/gencart/internal/config"
)

func TestNewPasswordHasherUsesConfiguredCost(t *testing.T) {
	cases := map[int]int{0: bcrypt.DefaultCost, 5: 5, 99: bcrypt.MaxCost}
	for configured, want := range cases {
		hasher, ok := newPasswordHasher(&config.Config{BcryptCost: configured}).(*BcryptHasher)
		if !ok {
			t.Fatal("expected *BcryptHasher")
		}
		if hasher.cost != want {
			t.Fatalf("cost %d: expected %d, got %d", configured, want, hasher.cost)
		}
	}
}

func TestModuleProvidesPrimitives(t *testing.T) {
	var (
		hasher   PasswordHasher
		strategy Strategy
	)
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(&config.Config{JWTSecret: "top-secret", TokenTTL: 2 * time.Hour, BcryptCost: bcrypt.MinCost}),
		Module,
		fx.Populate(&hasher, &strategy),
	)
	app.RequireStart()
	defer app.RequireStop()

	hmacStrategy, ok := strategy.(*HMACStrategy)
	if !ok {
		t.Fatalf("expected *HMACStrategy, got %T", strategy)
	}
	if string(hmacStrategy.secret) != "top-secret" || hmacStrategy.ttl != 2*time.Hour {
		t.Fatalf("unexpected strategy settings %q %s", hmacStrategy.secret, hmacStrategy.ttl)
	}
	if hasher.(*BcryptHasher).cost != bcrypt.MinCost {
		t.Fatalf("unexpected hasher cost")
	}
}
