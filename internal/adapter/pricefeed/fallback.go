package pricefeed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/polkiloo/gencart/internal/usecase"
)

const (
	breakerTrips   = 3
	breakerCoolOff = 30 * time.Second
)

// FallbackOracle quotes from the primary oracle through a circuit breaker and
// answers from the fallback whenever the primary fails or the circuit is open.
type FallbackOracle struct {
	primary  usecase.RateOracle
	fallback usecase.RateOracle
	breaker  *gobreaker.CircuitBreaker[decimal.Decimal]
	logger   *slog.Logger
}

func NewFallbackOracle(primary, fallback usecase.RateOracle, logger *slog.Logger) *FallbackOracle {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := gobreaker.NewCircuitBreaker[decimal.Decimal](gobreaker.Settings{
		Name:        "pricefeed",
		MaxRequests: 1,
		Timeout:     breakerCoolOff,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		// an unknown symbol or a cancelled caller says nothing about feed health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownSymbol) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return &FallbackOracle{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (o *FallbackOracle) USDRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rate, err := o.breaker.Execute(func() (decimal.Decimal, error) {
		return o.primary.USDRate(ctx, symbol)
	})
	if err == nil {
		return rate, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return decimal.Zero, ctxErr
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		o.logger.Debug("price feed circuit open, using fallback rate", slog.String("symbol", symbol))
	} else {
		o.logger.Warn("price feed unavailable, using fallback rate",
			slog.String("symbol", symbol),
			slog.Any("error", err))
	}
	return o.fallback.USDRate(ctx, symbol)
}

// State reports the breaker state for diagnostics.
func (o *FallbackOracle) State() gobreaker.State {
	return o.breaker.State()
}
