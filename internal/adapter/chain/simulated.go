package chain

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gencart/internal/domain/model"
)

const simulatedGasUsed = 21000

var simulatedGasPrice = decimal.NewFromInt(20_000_000_000)

// SimulatedOptions configure SimulatedClient.
type SimulatedOptions struct {
	// BlockTime advances the head by one block per interval; zero freezes the head.
	BlockTime time.Duration
	// MineAfter mines a hash that long after it was first queried; zero never mines on its own.
	MineAfter time.Duration
	Now       func() time.Time
}

// SimulatedClient is an in-process chain. Hashes are mined explicitly with Mine
// or automatically after MineAfter.
type SimulatedClient struct {
	mu        sync.Mutex
	opts      SimulatedOptions
	genesis   time.Time
	mined     int64
	receipts  map[string]model.Receipt
	firstSeen map[string]time.Time
}

// NewSimulatedClient creates a chain whose head starts at block zero.
func NewSimulatedClient(opts SimulatedOptions) *SimulatedClient {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SimulatedClient{
		opts:      opts,
		genesis:   opts.Now(),
		receipts:  make(map[string]model.Receipt),
		firstSeen: make(map[string]time.Time),
	}
}

func (c *SimulatedClient) head() int64 {
	h := c.mined
	if c.opts.BlockTime > 0 {
		h += int64(c.opts.Now().Sub(c.genesis) / c.opts.BlockTime)
	}
	return h
}

func (c *SimulatedClient) mine(hash string, succeeded bool) model.Receipt {
	c.mined++
	r := model.Receipt{
		Hash:              hash,
		BlockNumber:       c.head(),
		GasUsed:           simulatedGasUsed,
		EffectiveGasPrice: simulatedGasPrice,
		Succeeded:         succeeded,
	}
	c.receipts[hash] = r
	return r
}

// Mine includes hash in a new block.
func (c *SimulatedClient) Mine(hash string, succeeded bool) model.Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mine(hash, succeeded)
}

// AdvanceBlocks appends n empty blocks.
func (c *SimulatedClient) AdvanceBlocks(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mined += n
}

// Receipt returns nil until the hash is mined.
func (c *SimulatedClient) Receipt(ctx context.Context, hash string) (*model.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.receipts[hash]; ok {
		return &r, nil
	}
	seen, ok := c.firstSeen[hash]
	if !ok {
		seen = c.opts.Now()
		c.firstSeen[hash] = seen
	}
	if c.opts.MineAfter > 0 && c.opts.Now().Sub(seen) >= c.opts.MineAfter {
		r := c.mine(hash, true)
		return &r, nil
	}
	return nil, nil
}

// Confirmations counts the block holding hash and every block after it.
func (c *SimulatedClient) Confirmations(ctx context.Context, hash string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.receipts[hash]
	if !ok {
		return 0, nil
	}
	return c.head() - r.BlockNumber + 1, nil
}
