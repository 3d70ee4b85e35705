package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FixedRateOracle quotes configured USD rates that never change.
type FixedRateOracle struct {
	rates map[string]decimal.Decimal
}

// NewFixedRateOracle quotes ETH at ethUSD and the dollar stablecoins at par.
func NewFixedRateOracle(ethUSD decimal.Decimal) *FixedRateOracle {
	return &FixedRateOracle{rates: map[string]decimal.Decimal{
		"ETH":  ethUSD,
		"USDT": decimal.NewFromInt(1),
		"USDC": decimal.NewFromInt(1),
	}}
}

func (o *FixedRateOracle) USDRate(_ context.Context, symbol string) (decimal.Decimal, error) {
	rate, ok := o.rates[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, fmt.Errorf("no usd rate for %q", symbol)
	}
	return rate, nil
}
