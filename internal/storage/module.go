package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/storage/memory"
	"github.com/polkiloo/gencart/internal/storage/postgres"
)

// Module provides the repository store selected by configuration.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

type closer interface {
	Close()
}

var openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Store, error) {
	return postgres.New(ctx, dsn, logger)
}

func newStore(p storeParams) (repository.Store, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Warn("DATABASE_URI is empty, using in-memory store")
		return memory.New(), nil
	}
	return openPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store repository.Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if c, ok := store.(closer); ok {
				c.Close()
			}
			return nil
		},
	})
}
