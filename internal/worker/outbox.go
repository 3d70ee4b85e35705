package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	"github.com/polkiloo/gencart/internal/metrics"
)

const outboxBatchSize = 100

// EventPublisher delivers outbox events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// OutboxRelay moves committed events from the outbox to the publisher.
// Delivery is at least once: an event whose MarkSent fails is published again.
type OutboxRelay struct {
	outbox    repository.OutboxRepository
	publisher EventPublisher
	interval  time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewOutboxRelay(outbox repository.OutboxRepository, publisher EventPublisher, interval time.Duration, m *metrics.Metrics, logger *slog.Logger) *OutboxRelay {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *OutboxRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop cancels the relay loop and waits for the current batch.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OutboxRelay) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush publishes one batch of pending events and returns how many were marked sent.
func (r *OutboxRelay) Flush(ctx context.Context) int {
	events, err := r.outbox.FetchPending(ctx, outboxBatchSize)
	if err != nil {
		r.logger.Error("fetch outbox events failed", slog.String("error", err.Error()))
		return 0
	}

	sent := 0
	for _, event := range events {
		if ctx.Err() != nil {
			break
		}
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.metrics.OutboxPublished("error")
			r.logger.Error("publish event failed",
				slog.Int64("id", event.ID),
				slog.String("type", event.Type),
				slog.String("error", err.Error()),
			)
			continue
		}
		r.metrics.OutboxPublished("success")

		if err := r.outbox.MarkSent(ctx, event.ID, r.now()); err != nil {
			r.logger.Error("mark event sent failed", slog.Int64("id", event.ID), slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent
}
