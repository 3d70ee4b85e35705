package pricefeed

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/adapter/chain"
	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/usecase"
)

// Module provides the USD rate oracle used to price blockchain payments.
var Module = fx.Provide(newOracle)

type oracleParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newOracle(p oracleParams) (usecase.RateOracle, error) {
	fixed := chain.NewFixedRateOracle(p.Config.EthUSDRate)
	if p.Config.RateOracleURL == "" {
		return fixed, nil
	}
	feed, err := NewHTTPOracle(p.Config.RateOracleURL, p.Logger)
	if err != nil {
		return nil, err
	}
	return NewFallbackOracle(feed, fixed, p.Logger), nil
}
