package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
)

// Module provides the bcrypt hasher and HMAC token strategy, both tuned from config.
var Module = fx.Provide(newPasswordHasher, newTokenStrategy)

func newPasswordHasher(cfg *config.Config) PasswordHasher {
	return NewBcryptHasher(cfg.BcryptCost)
}

func newTokenStrategy(cfg *config.Config) Strategy {
	return NewHMACStrategy(cfg.JWTSecret, Options{TTL: cfg.TokenTTL})
}
