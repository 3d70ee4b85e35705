package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/worker"
)

// Module provides the event publisher used by the outbox relay.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) worker.EventPublisher {
	var pub worker.EventPublisher
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Warn("KAFKA_BROKERS is empty, events are written to the log")
		pub = NewLogPublisher(p.Logger)
	} else {
		pub = NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error { return pub.Close() },
	})
	return pub
}
