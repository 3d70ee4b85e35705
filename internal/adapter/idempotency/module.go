package idempotency

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// Module provides the checkout idempotency store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) repository.IdempotencyStore {
	if p.Config.RedisAddr == "" {
		p.Logger.Warn("REDIS_ADDR is empty, Idempotency-Key headers are ignored")
		return Disabled{}
	}
	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddr})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis is not reachable yet", slog.Any("error", err))
			}
			return nil
		},
		OnStop: func(context.Context) error { return client.Close() },
	})
	return NewRedisStore(client, p.Config.IdempotencyTTL)
}
