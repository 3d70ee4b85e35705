package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/adapter/chain"
	"github.com/polkiloo/gencart/internal/adapter/events"
	"github.com/polkiloo/gencart/internal/adapter/idempotency"
	"github.com/polkiloo/gencart/internal/adapter/pricefeed"
	"github.com/polkiloo/gencart/internal/app"
	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/logger"
	"github.com/polkiloo/gencart/internal/metrics"
	"github.com/polkiloo/gencart/internal/pkg/auth"
	"github.com/polkiloo/gencart/internal/server/http/router"
	"github.com/polkiloo/gencart/internal/storage"
	"github.com/polkiloo/gencart/internal/usecase"
)

// Module assembles the whole service graph. Extra options are appended last so
// tests can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		storage.Module,
		idempotency.Module,
		chain.Module,
		pricefeed.Module,
		events.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
