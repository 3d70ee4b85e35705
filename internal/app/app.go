package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/metrics"
	"github.com/polkiloo/gencart/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewShopFacade,
		newHTTPServer,
		newTransactionMonitor,
		newOutboxRelay,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type monitorParams struct {
	fx.In

	Facade *ShopFacade
	Config *config.Config
	Logger *slog.Logger
}

func newTransactionMonitor(p monitorParams) *worker.TransactionMonitor {
	return worker.NewTransactionMonitor(
		p.Facade,
		p.Config.MonitorInterval,
		p.Config.MonitorBatchSize,
		p.Config.MonitorWorkers,
		p.Logger,
	)
}

type relayParams struct {
	fx.In

	Store     repository.Store
	Publisher worker.EventPublisher
	Config    *config.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

func newOutboxRelay(p relayParams) *worker.OutboxRelay {
	return worker.NewOutboxRelay(p.Store.Outbox(), p.Publisher, p.Config.OutboxInterval, p.Metrics, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Monitor    *worker.TransactionMonitor
	Relay      *worker.OutboxRelay
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting gencart", slog.String("addr", p.Server.Addr))
			// workers outlive the start context
			p.Monitor.Start(context.WithoutCancel(ctx))
			p.Relay.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Monitor.Stop()
			// drain events committed by requests that finished during shutdown
			p.Relay.Stop()
			p.Relay.Flush(shutdownCtx)

			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("gencart stopped")
			return nil
		},
	})
}
