package chain

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/usecase"
)

// Module provides the chain client and signature verifier.
var Module = fx.Provide(
	newClient,
	newVerifier,
)

func newClient(cfg *config.Config) usecase.ChainClient {
	return NewSimulatedClient(SimulatedOptions{BlockTime: cfg.ChainBlockTime, MineAfter: cfg.ChainMineAfter})
}

func newVerifier() usecase.SignatureVerifier {
	return PlaceholderVerifier{}
}
