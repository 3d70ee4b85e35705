package events

import (
	"context"
	"log/slog"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// LogPublisher writes events to the application log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event model.Event) error {
	p.logger.InfoContext(ctx, "domain event",
		slog.String("event_id", event.EventID.String()),
		slog.String("event_type", event.Type),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(event.Payload)))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
